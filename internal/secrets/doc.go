// Package secrets provides the cryptographic envelope used by lockd.
//
// This package handles key derivation from a username/password pair and the
// authenticated encryption of single files and whole folders.
//
// # Key Derivation
//
// Keys are derived with Argon2id using the username as the salt:
//
//  1. The username bytes are zero-extended to 16 bytes when shorter
//  2. Argon2id runs with time=2, memory=19 MiB, threads=1
//  3. The 32-byte output is the AES-256 key for the session
//
// The padding rule must be reproduced exactly by any other implementation,
// otherwise the same credentials produce a different key.
//
// # Container Format
//
// Every encrypted file is a bare envelope:
//
//	offset 0..12   : nonce
//	offset 12..end : AES-256-GCM ciphertext || 16-byte tag
//
// There is no header and no version byte. A fresh random nonce is read for
// every call to Encrypt, so encrypting the same plaintext twice produces
// different output (non-deterministic encryption).
//
// # File Operations
//
// Files are encrypted next to a chosen destination with a .lockd suffix:
//   - Original: report.txt
//   - Encrypted: report.txt.lockd
//
// Folders are mirrored recursively. Files are buffered whole in memory.
package secrets
