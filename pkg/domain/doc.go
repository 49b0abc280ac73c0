/*
Package domain contains the core domain models of the calform engine.

It defines the vocabulary shared by every other package: the fields a form is
made of, the live form state, the dependent groups that are validated together,
the typed events that drive staged validation and the lifecycle states of an
export session. This package is kept pure and free of I/O.

# Key Entities

  - FieldDescriptor: a persisted field with a stable key and a value kind (Flag or Scalar).
  - FormState: the live snapshot of field values; absent keys are "unset".
  - DependentGroup: a named set of fields that are validated together.
  - Event: a focus or edit notification consumed by the staged validation controller.
  - SessionState: the lifecycle of one streamed export artifact.
*/
package domain
