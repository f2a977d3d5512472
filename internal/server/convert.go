package server

import (
	"go.lsp.dev/protocol"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/lspgen"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
)

func fromProtocolPosition(p protocol.Position) manifest.Position {
	return manifest.Position{Line: int(p.Line), Character: int(p.Character)}
}

func toProtocolPosition(p manifest.Position) protocol.Position {
	return protocol.Position{Line: uint32(p.Line), Character: uint32(p.Character)}
}

func toProtocolRange(r manifest.Range) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(r.Start), End: toProtocolPosition(r.End)}
}

func toProtocolSeverity(s lspgen.Severity) protocol.DiagnosticSeverity {
	return protocol.DiagnosticSeverity(s)
}

func toProtocolDiagnostics(diags []lspgen.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, protocol.Diagnostic{
			Range:    toProtocolRange(d.Range),
			Severity: toProtocolSeverity(d.Severity),
			Code:     string(d.Code),
			Source:   "deps-lsp",
			Message:  d.Message,
		})
	}
	return out
}

func toProtocolInlayHints(hints []lspgen.Hint) []protocol.InlayHint {
	out := make([]protocol.InlayHint, 0, len(hints))
	for _, h := range hints {
		out = append(out, protocol.InlayHint{
			Position:    toProtocolPosition(h.Position),
			Label:       []protocol.InlayHintLabelPart{{Value: h.Label}},
			PaddingLeft: true,
		})
	}
	return out
}

func toProtocolCodeActions(actions []lspgen.CodeAction, docURI protocol.DocumentURI) []protocol.CodeAction {
	out := make([]protocol.CodeAction, 0, len(actions))
	for _, a := range actions {
		out = append(out, protocol.CodeAction{
			Title: a.Title,
			Kind:  protocol.QuickFix,
			Edit: &protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentURI][]protocol.TextEdit{
					docURI: {{Range: toProtocolRange(a.Edit.Range), NewText: a.Edit.NewText}},
				},
			},
		})
	}
	return out
}

func toProtocolCompletionItems(items []lspgen.CompletionItem) []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, 0, len(items))
	for _, it := range items {
		out = append(out, protocol.CompletionItem{
			Label:      it.Label,
			Detail:     it.Detail,
			InsertText: it.InsertText,
		})
	}
	return out
}

func toProtocolHover(h *lspgen.Hover) *protocol.Hover {
	if h == nil {
		return nil
	}
	r := toProtocolRange(h.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: h.Contents},
		Range:    &r,
	}
}
