package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
)

// ComputeReceipt derives the ledger receipt of an accepted note: the
// Keccak-256 of its canonical form. The canonical form joins id, author,
// content, color, position and the unix-nano timestamp with '\x1f'.
func ComputeReceipt(id string, d NoteDraft, ts time.Time) Receipt {
	canonical := strings.Join([]string{
		id,
		strings.ToLower(d.Author),
		d.Content,
		string(d.Color),
		strconv.FormatFloat(d.X, 'g', -1, 64),
		strconv.FormatFloat(d.Y, 'g', -1, 64),
		strconv.FormatInt(ts.UnixNano(), 10),
	}, "\x1f")
	return Receipt(crypto.Keccak256Hash([]byte(canonical)).Hex())
}
