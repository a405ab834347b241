// Package harness runs filter conformance scenarios.
//
// A scenario compiles each of its filters to every target (relational,
// graph pattern and predicate tree), compares the rendered output with the
// expected text and optionally runs the filter against both catalogue
// backends seeded from a CUE directory.
//
// # Scenario Format
//
//	name: tag_and_author
//	description: "Conjunction over two joined tables"
//	seed: ../seed            # optional, relative to the scenario file
//	strict_fields: true      # relational compiler rejects unknown fields
//	cases:
//	  - name: fantasy_by_sapkowski
//	    filter: tag==fantasy and author=like=Sap
//	    expect:
//	      sql: "SELECT * FROM Books LEFT JOIN AUTHORS ..."
//	      tree: "all(lower(tags.name) = 'fantasy', ...)"
//	      books: [krew-elfow]
//	  - name: unknown_operator
//	    filter: title=~~=X
//	    expect:
//	      error: operator
//	  - name: graph_rejects_author_id
//	    filter: author.id==a1
//	    expect:
//	      errors:
//	        sparql: field
//
// Expectations that are left out are not checked. error applies to every
// target; errors overrides it per target. books is compared against the
// memory and sqlite backends unless backends narrows the list.
//
// # Golden Files
//
// RunWithGolden snapshots every compiled output of a scenario under
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
