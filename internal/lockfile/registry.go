package lockfile

// ForEcosystem returns every resolver that applies to ecosystem, in the
// order they should be tried. PyPI has three lock formats (poetry.lock,
// uv.lock, and none for a plain PEP 621 project); the first one found on
// disk wins.
func ForEcosystem(ecosystem string) []Resolver {
	switch ecosystem {
	case "cargo":
		return []Resolver{CargoResolver{}}
	case "npm":
		return []Resolver{NpmResolver{}}
	case "pypi":
		return []Resolver{PoetryResolver{}, UvResolver{}}
	case "golang":
		return []Resolver{GoSumResolver{}}
	}
	return nil
}

// All returns every resolver, for spec §6's file-watcher registration
// (each ecosystem's lock file patterns are registered regardless of which
// documents happen to be open).
func All() []Resolver {
	return []Resolver{CargoResolver{}, NpmResolver{}, PoetryResolver{}, UvResolver{}, GoSumResolver{}}
}
