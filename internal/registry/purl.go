package registry

import (
	"strings"

	packageurl "github.com/package-url/packageurl-go"
)

// BuildPURL constructs a package URL for hover display. npm scoped names
// ("@babel/core") and Go module paths both split into a PURL namespace plus
// name; every other ecosystem here is unscoped.
func BuildPURL(ecosystem, name, version string) string {
	namespace, short := splitNamespace(ecosystem, name)
	p := packageurl.NewPackageURL(ecosystem, namespace, short, version, nil, "")
	return p.ToString()
}

func splitNamespace(ecosystem, name string) (namespace, short string) {
	switch ecosystem {
	case "npm":
		if strings.HasPrefix(name, "@") {
			if i := strings.Index(name, "/"); i != -1 {
				return name[:i], name[i+1:]
			}
		}
	case "golang":
		if i := strings.LastIndex(name, "/"); i != -1 {
			return name[:i], name[i+1:]
		}
	}
	return "", name
}
