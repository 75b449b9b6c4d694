// Package assets supplies the templates and stylesheet of the HTML manual.
//
// The built-in files are embedded in the binary. A project may override any
// of them by placing a file with the same relative path under an override
// directory (the --asset-path flag):
//
//	{dir}/
//	├── styles/
//	│   └── manpage.css
//	└── templates/
//	    ├── page.html       # wrapper around a rendered man page
//	    ├── redirect.html   # stub pages and the root index
//	    └── readme.html     # wrapper around the rendered README
//
// Files missing from the override directory come from the built-in set.
// Override reads go through an os.Root, so a symlink pointing outside the
// directory is refused rather than followed.
package assets
