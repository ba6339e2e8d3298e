package pgproto

import (
	"crypto/md5"
	"encoding/hex"
)

// Password is the payload of a PasswordMessage. It has two forms: a plain
// value sent in response to AuthenticationCleartextPassword, and a salted
// MD5 digest sent in response to AuthenticationMD5Password.
type Password struct {
	encoded []byte
}

// ClearText builds the PasswordMessage payload for
// AuthenticationCleartextPassword: the password verbatim.
func ClearText(password string) Password {
	return Password{encoded: []byte(password)}
}

// MD5 builds the PasswordMessage payload for AuthenticationMD5Password:
// "md5" + hex(md5(hex(md5(password+user)) + salt)).
//
// Grounded on lib-pq's conn.go md5s helper (two chained crypto/md5 sums),
// generalized to take the salt explicitly instead of reading it off a live
// connection.
func MD5(user, password string, salt [4]byte) Password {
	inner := md5Hex(password + user)
	outer := md5Hex(inner + string(salt[:]))
	return Password{encoded: append([]byte("md5"), outer...)}
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// encode returns the NUL-terminated PasswordMessage payload.
func (p Password) encode() []byte {
	out := make([]byte, len(p.encoded)+1)
	copy(out, p.encoded)
	return out
}
