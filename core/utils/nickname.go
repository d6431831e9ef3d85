package utils

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
)

// NicknameToID maps a nickname to the numeric user id used as the schedule key.
//
// It is the 31-multiplier string hash over UTF-16 code units, where the shifted
// accumulator wraps at 32 bits, followed by an absolute value. Ids produced by
// earlier clients for the same nickname are therefore stable. The hash is not
// cryptographic and distinct nicknames may collide; a collision means two
// nicknames share one schedule. That is accepted: the id is a lookup key and
// never proves who someone is.
func NicknameToID(nickname string) int64 {
	var acc int64
	for _, unit := range utf16.Encode([]rune(nickname)) {
		shifted := int32(acc) << 5
		acc = int64(shifted) - acc + int64(unit)
	}
	if acc < 0 {
		return -acc
	}
	return acc
}

// NormalizeNickname trims surrounding whitespace and reports whether the
// result is usable as a nickname.
func NormalizeNickname(nickname string) (string, bool) {
	n := strings.TrimSpace(nickname)
	if n == "" || utf8.RuneCountInString(n) > constants.MaxNicknameLength {
		return "", false
	}
	return n, true
}
