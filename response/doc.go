// Package response decodes engine payloads into typed models.
//
// Every Parse function follows the same order: a null buffer is an
// EmptyResult error, a non-zero status is an Engine error carrying the
// engine's message verbatim, a payload that does not decode is Malformed,
// and a decoded payload whose "code" is not "Ok" is an API error. Only a
// fully decoded, schema-checked response is returned.
//
// Geometry fields are a three-way variant: absent, an encoded polyline
// string, or a GeoJSON LineString. Node ID arrays accept integers and
// floats; floats that lose precision are recorded and surface through the
// response's Warnings method.
package response
