/*
Package registry holds the Field Registry: the ordered, immutable list of
persisted fields and the dependent groups they belong to.

Registries are deployment-time configuration. They are declared in code
(see Calibration) or loaded from a YAML document with Load/LoadFile.
*/
package registry
