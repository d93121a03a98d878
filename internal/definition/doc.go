// Package definition loads task definitions from a violet.toml, violet.yaml
// or violet.json file and turns them into a violet.DefineFunc.
//
// A definition file declares tasks by name. Each task lists its
// dependencies and an ordered list of steps; every step holds exactly one
// of exec, parallel, context, log, warn or error:
//
//	log_level = "warn"
//
//	[tasks.build]
//	deps = ["clean"]
//
//	[[tasks.build.steps]]
//	exec = ["go", "build", "./..."]
//
//	[[tasks.build.steps]]
//	parallel = [["go", "vet", "./..."], ["go", "test", "./..."]]
//
// Files are validated against an embedded JSON Schema before they are applied.
package definition
