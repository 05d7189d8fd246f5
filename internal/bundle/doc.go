// Package bundle discovers the strings*.properties files of a resource
// package and unions their keys.
//
// # Layout
//
// A package identifier such as "app.text" or "app/text" maps onto the
// directory <resources>/app/text. Only regular files directly inside that
// directory whose name matches the bundle naming scheme take part:
//
//	strings.properties        base variant
//	strings_de.properties     language variant
//	strings_de_CH.properties  language and country variant
//
// Everything else in the directory is ignored.
//
// # Usage
//
//	c, err := bundle.NewCollector("UTF-8", log)
//	keys, err := c.Collect("resources", "app.text")
//	for _, k := range keys.Sorted() {
//	    fmt.Println(k)
//	}
//
// Values are never inspected; only keys matter.
package bundle
