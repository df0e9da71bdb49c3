// Package harness provides conformance testing for the recombination
// pipeline.
//
// The harness loads scenario files, runs the full solve/splice pipeline
// against an inline rule table, and validates the output, the selected
// regions, and the failure mode as executable contract tests.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	sequence: ATCGGATCGTAA
//	k: 4
//	require: [cat, dog]
//	forbid: [fish]
//	table:
//	  rules:
//	    ATCG: {tags: [cat]}
//	    GGAT: {tags: [dog]}
//	    CGTA: {tags: [fish]}
//	expect:
//	  output: ATCGGAT
//	  regions: ["(0,4)", "(4,7)"]
//
// A scenario expecting failure names the error instead:
//
//	expect:
//	  error: NO_FEASIBLE_REGION
//
// # Deterministic Testing
//
// The pipeline is pure: identical scenarios produce byte-identical
// certificates, so golden snapshot comparison (RunWithGolden) captures
// the complete observable result, canonical JSON included.
package harness
