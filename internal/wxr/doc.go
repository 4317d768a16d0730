// Package wxr reads WordPress eXtended RSS exports.
//
// Elements are matched by local name, so exports produced by any WXR
// version (1.0 through 1.2) decode the same way. The only namespace that
// matters is the one separating content:encoded from excerpt:encoded.
//
//	export, err := wxr.ParseFile("export.xml")
//	for _, post := range export.Posts(wxr.DefaultFilter()) {
//		body, err := post.Content()
//		...
//	}
package wxr
