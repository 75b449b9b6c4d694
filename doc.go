// Package ssstrdoc checks and publishes the Ssstr string library's
// documentation: the man pages, the README and the public header.
//
// # Quick Start
//
// Create a service and run the checks a release needs:
//
//	svc := ssstrdoc.New()
//
//	err := svc.CheckMan(ctx, "include/ss8str.h",
//	    []string{"test/test_man_examples.c"},
//	    manPages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Failures are structured. Every validation error unwraps to one of
// lint.ErrFormat, lint.ErrCrossRef, lint.ErrConsistency or
// lint.ErrExternal, so callers can branch with errors.Is. Consistency
// reports (missing prototypes, unmatched examples, unmentioned functions)
// are written to the report writer before the error is returned.
//
// # Operations
//
//  1. CheckMan validates every man page, the links between them, the
//     header prototypes and the EXAMPLES snippets.
//  2. CheckReadme writes the C test source for the README snippets and
//     requires every function to be mentioned.
//  3. CheckVersion looks for the version banner near the top of headers.
//  4. GenerateHTML typesets the manual with groff into a static HTML tree.
//
// # Configuration
//
// The conventions (function prefix, header markers, external links) default
// to Ssstr's. Pass a loaded config to change them:
//
//	cfg, err := config.LoadConfig("ssstrdoc")
//	svc := ssstrdoc.New(ssstrdoc.WithConfig(cfg))
package ssstrdoc
