package format

// Bank arithmetic for the fixed 64 KiB bank layout.

// BankOf returns the bank number containing the file offset off.
//
// Example:
//
//	BankOf(0x00FFFF) = 0
//	BankOf(0x010000) = 1
func BankOf(off int) int {
	return off / BankSize
}

// BankStart returns the first offset of the bank containing off.
func BankStart(off int) int {
	return off &^ BankMask
}

// NextBankStart returns the first offset of the bank after the one
// containing off.
func NextBankStart(off int) int {
	return BankStart(off) + BankSize
}

// AlignBank returns n aligned up to the next bank boundary.
//
// Example:
//
//	AlignBank(1)       = 0x10000
//	AlignBank(0x10000) = 0x10000
//	AlignBank(0x10001) = 0x20000
func AlignBank(n int) int {
	return (n + BankMask) &^ BankMask
}

// SameBank reports whether the half-open range [off, off+n) lies in one bank.
// Empty ranges are trivially in one bank.
func SameBank(off, n int) bool {
	if n <= 0 {
		return true
	}
	return BankOf(off) == BankOf(off+n-1)
}
