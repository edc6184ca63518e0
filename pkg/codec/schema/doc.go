// Package schema implements a segmented, schema-described message layout
// holding a single root struct with one List(Text) field.
//
// The wire format is a subset of the Cap'n Proto encoding: little-endian
// 64-bit words, struct and list pointers with signed word offsets, far
// pointers with landing pads for objects placed in a different segment, and
// the standard stream framing (segment count minus one, then one 32-bit word
// count per segment, padded to a word).
//
// Reading never copies text bytes. Every pointer dereference is bounds checked
// against its segment and charged against a traversal budget.
package schema
