// Package filesystem walks resource trees, skipping the directories a
// project never keeps bundles in.
//
// Find every bundle package under a resources directory:
//
//	pkgs, err := filesystem.DiscoverBundlePackages("resources", filesystem.WalkOptions{})
//	for _, pkg := range pkgs {
//	    fmt.Println(pkg) // e.g. "app.text"
//	}
package filesystem
