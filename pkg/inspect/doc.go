// Package inspect checks protocol documents read from files or streams.
//
// An Inspector accepts JSON or YAML input, detects the entity kind of
// top-level messages, decodes through an instrumented codec, re-encodes the
// result canonically and lints it for invariants the codec preserves but
// does not enforce:
//
//	ins, err := inspect.New(inspect.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	reports, err := ins.InspectFiles(ctx, inspect.KindAuto, paths)
//
// Decode failures are reported per document and never abort a batch.
// Watch keeps inspecting the same files as they change.
package inspect
