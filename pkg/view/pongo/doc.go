// Package pongo implements view.Renderer on top of github.com/flosch/pongo2.
//
// The Engine owns the pongo2 template set, its globals, filters and parsed
// template cache. FilesystemLoader resolves "namespace::name" references
// against ordered on-disk search paths. Renderer glues both to a default
// parameter table:
//
//	renderer, err := pongo.New()
//	if err != nil {
//		return err
//	}
//	_ = renderer.AddPath("templates")
//	_ = renderer.AddPath("templates/admin", "admin")
//	_ = renderer.AddDefaultParam(view.TemplateAll, "site", "Acme")
//	html, err := renderer.Render("admin::users", map[string]any{"page": 2})
package pongo
