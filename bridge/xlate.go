package bridge

// kbNA marks a key with no Apple equivalent: the port latch is left alone
// and only the strobe fires.
const kbNA byte = 0x00

// xlate maps (modifier row, set-1 scan code) to the Apple keyboard code put
// on the parallel port. Rows are indexed by the modifier byte: none, ctrl,
// shift, shift+ctrl. All real codes have the high bit set, matching the
// Apple II keyboard's bus convention; control codes land in 0x80..0x9F and
// printables in 0xA0..0xDE.
var xlate = [4][58]byte{
	// no modifier
	{
		kbNA,
		0x9B, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7, 0xB8, 0xB9, // ..10
		0xB0, 0xAD, 0xBA, kbNA, kbNA, 0xD1, 0xD7, 0xC5, 0xD2, 0xD4, // ..20
		0xD9, 0xD5, 0xC9, 0xCF, 0xD0, kbNA, kbNA, 0x8D, kbNA, 0xC1, // ..30
		0xD3, 0xC4, 0xC6, 0xC7, 0xC8, 0xCA, 0xCB, 0xCC, 0xBB, kbNA, // ..40
		kbNA, kbNA, kbNA, 0xDA, 0xD8, 0xC3, 0xD6, 0xC2, 0xCE, 0xCD, // ..50
		0xAC, 0xAE, 0xAF, kbNA, 0x88, 0x95, 0xA0, // ..57
	},

	// ctrl
	{
		kbNA,
		0x9B, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7, 0xB8, 0xB9, // ..10
		0xB0, 0xAD, 0xBA, kbNA, kbNA, 0x91, 0x97, 0x85, 0x92, 0x94, // ..20
		0x99, 0x95, 0x89, 0x8F, 0x90, kbNA, kbNA, 0x8D, kbNA, 0x81, // ..30
		0x93, 0x84, 0x86, 0x87, 0x88, 0x8A, 0x8B, 0x8C, 0xBB, kbNA, // ..40
		kbNA, kbNA, kbNA, 0x9A, 0x98, 0x83, 0x96, 0x82, 0x8E, 0x8D, // ..50
		0xAC, 0xAE, 0xAF, kbNA, 0x88, 0x95, 0xA0, // ..57
	},

	// shift
	{
		kbNA,
		0x9B, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7, 0xA8, 0xA9, // ..10
		0xB0, 0xBD, 0xAA, kbNA, kbNA, 0xD1, 0xD7, 0xC5, 0xD2, 0xD4, // ..20
		0xD9, 0xD5, 0xC9, 0xCF, 0xC0, kbNA, kbNA, 0x8D, kbNA, 0xC1, // ..30
		0xD3, 0xC4, 0xC6, 0xC7, 0xC8, 0xCA, 0xCB, 0xCC, 0xAB, kbNA, // ..40
		kbNA, kbNA, kbNA, 0xDA, 0xD8, 0xC3, 0xD6, 0xC2, 0xDE, 0xDD, // ..50
		0xBC, 0xBE, 0xBF, kbNA, 0x88, 0x95, 0xA0, // ..57
	},

	// shift+ctrl
	{
		kbNA,
		0x9B, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7, 0xA8, 0xA9, // ..10
		0xB0, 0xBD, 0xAA, kbNA, kbNA, 0x91, 0x97, 0x85, 0x92, 0x94, // ..20
		0x99, 0x95, 0x89, 0x8F, 0x80, kbNA, kbNA, 0x8D, kbNA, 0x81, // ..30
		0x93, 0x84, 0x86, 0x87, 0x88, 0x8A, 0x8B, 0x8C, 0xAB, kbNA, // ..40
		kbNA, kbNA, kbNA, 0x9A, 0x98, 0x83, 0x96, 0x82, 0x9E, 0x94, // ..50
		0xBC, 0xBE, 0xBF, kbNA, 0x88, 0x95, 0xA0, // ..57
	},
}
