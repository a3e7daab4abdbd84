// Package neondatamodels defines the shared data contracts exchanged
// between the components of the Neon voice-assistant platform: user
// records and their configuration sections, access-control roles, token
// metadata, device records, inter-service message envelopes, and the
// discriminated request/message families built on them.
//
// # Scope
//
// The module's job is schema definition: field validation and coercion,
// default-value management, backward-compatible aliasing, and round-trip
// serialization. Callers pass in loosely-typed mappings (as decoded from
// JSON) and receive strongly-typed records or field-scoped validation
// errors. The module deliberately contains no transport, message-queue
// wiring, or persistence; those collaborators live in the services that
// exchange these records.
//
// # Packages
//
//   - enums: access roles and the alert/user-data enumerations, each
//     constructible from a symbolic name or integer value.
//   - errors: sentinel validation error kinds with field-path scoping.
//   - schema: the validation-and-coercion pipeline shared by every model,
//     plus the extra-field policy and timestamp helpers.
//   - user: the canonical User record, nested configuration, per-service
//     permissions, token metadata, and the legacy profile derivation.
//   - client: node (device) records with legacy flat-location handling.
//   - message: the generic envelope, the extensible context bag, and the
//     dispatch registry for typed message families.
//   - api: user-database CRUD requests, the node_v1 message family, and
//     JWT/session-token shapes with HS256 helpers.
//
// # Validation model
//
// Every model offers ParseX(map[string]any) returning a fully-constructed
// record or an error; there is no partial construction. Dump serializes
// back to a plain mapping using canonical field names, and for every
// model Parse(Dump(x)) reproduces x. Unknown top-level fields on general
// record types follow a process-wide policy (see schema.DefaultPolicy);
// nested sections always drop unknown keys, and message contexts always
// retain them.
package neondatamodels
