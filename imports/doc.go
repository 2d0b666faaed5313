// Package imports loads an ontology and the ontologies it declares with
// owl:imports from local files, using a catalog to map import IRIs to paths.
//
// The root document is parsed as Turtle and every import as RDF/XML into the
// same graph. Per-import failures never abort the run: each import is
// recorded in the Report with one of four statuses.
//
//	g, report, err := imports.LoadGraphWithCatalog("root.ttl", "catalog-v001.xml")
//	if err != nil {
//	    return err // missing or malformed catalog, or unreadable root
//	}
//	fmt.Printf("Loaded %s imports\n", report.Summary())
package imports
