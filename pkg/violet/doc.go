/*
Package violet is a small task runner: tasks declare dependencies and an
ordered list of actions, and a Registry runs a task after all of its
dependencies have finished.

Core components:
  - Registry: declares tasks, runs them dependency-first.
  - Builder: fluent handle returned by Declare for appending dependencies and actions.
  - Context: per-run key/value state threaded through a task's actions.
  - Gate: the severity threshold shared by every log line the runner emits.

Basic usage:

	r := violet.NewRegistry(violet.NewSettings())
	r.Declare("build").
		Dep("clean").
		Exec("go", "build", "./...").
		Log("build finished")
	r.Freeze()
	err := r.Run(ctx, "build")
*/
package violet
