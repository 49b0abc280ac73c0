/*
Package calform is a form engine for a 3D printer linear advance calibrator.

It remembers every field of the form between runs, defers validation of
fields that only make sense together until the user leaves them, and streams
the generated calibration file to a sink without buffering the whole result.

# Architecture

The Engine is a thin facade over independent packages:

  - pkg/registry: the ordered field list and its dependent groups.
  - pkg/configstore: write-through persistence of the form over any
    ports.KVStore (memory, JSON file, Redis, SQLite), optionally wrapped
    by pkg/persistence/middleware (encryption, namespacing).
  - pkg/staging: the Settled/Editing state machine that gates the full
    validation callback.
  - pkg/export: the single active export session and its asynchronous close.
  - pkg/catalog: localized messages.

# Usage

	eng, err := calform.New(file.New(".calform/config.json"))
	if err != nil {
		log.Fatal(err)
	}
	if err := eng.Load(ctx); err != nil {
		log.Println(err) // remaining fields are still usable
	}
	eng.SetDefaults(defaults)

	_ = eng.Focus("k3d_la_initKFactor")
	_ = eng.Edit(ctx, "k3d_la_initKFactor", "0,02")

	if err := <-eng.Generate(ctx); err != nil {
		log.Fatal(err)
	}
*/
package calform
