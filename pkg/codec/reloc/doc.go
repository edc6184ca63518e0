// Package reloc implements the relocatable layout: a buffer that becomes a
// usable table after one in-place fix-up pass.
//
// Layout, all integers little-endian:
//
//	[0:4]   magic "RLC1"
//	[4:6]   version
//	[6:8]   flags (bit 0: relocated)
//	[8:16]  element table offset (0 on disk, 32 once relocated)
//	[16:24] length
//	[24:32] capacity
//	[32:]   length entries of {data offset u64, length u64}, then the string
//	        bytes back to back
//
// On disk each entry's data offset is relative to the start of the string
// bytes. Relocate rewrites them to absolute offsets and sets the relocated
// flag, so a buffer can be decoded only once.
package reloc
