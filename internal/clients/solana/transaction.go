package solana

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
)

// MemoProgramID is the SPL Memo v2 program.
const MemoProgramID = "MemoSq4gqReDhY1vsqA2ZbCvRs8EJPSzttpqdaA8v"

// BuildMemoTransaction assembles and signs a legacy-format transaction whose
// single instruction is a memo carrying the given payload (the IPFS CID). The
// fee payer is also the memo signer. Returns the serialized wire bytes.
func BuildMemoTransaction(payer *Keypair, recentBlockhash, memo string) ([]byte, error) {
	blockhash, err := base58.Decode(recentBlockhash)
	if err != nil || len(blockhash) != 32 {
		return nil, fmt.Errorf("invalid recent blockhash: %q", recentBlockhash)
	}
	programID, err := base58.Decode(MemoProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid memo program id: %w", err)
	}

	// Message: header, account keys, blockhash, instructions.
	// Accounts: [0] payer (writable signer), [1] memo program (readonly).
	var msg bytes.Buffer
	msg.WriteByte(1) // num required signatures
	msg.WriteByte(0) // num readonly signed accounts
	msg.WriteByte(1) // num readonly unsigned accounts

	writeCompactU16(&msg, 2)
	msg.Write(payer.PublicKey())
	msg.Write(programID)

	msg.Write(blockhash)

	writeCompactU16(&msg, 1) // instruction count
	msg.WriteByte(1)         // program id index
	writeCompactU16(&msg, 1) // account index count
	msg.WriteByte(0)         // payer signs the memo
	writeCompactU16(&msg, len(memo))
	msg.WriteString(memo)

	signature := payer.Sign(msg.Bytes())

	var tx bytes.Buffer
	writeCompactU16(&tx, 1) // signature count
	tx.Write(signature)
	tx.Write(msg.Bytes())
	return tx.Bytes(), nil
}

// writeCompactU16 encodes n in the shortvec format used by Solana's legacy
// transaction layout (little-endian base-128 varint capped at 3 bytes).
func writeCompactU16(buf *bytes.Buffer, n int) {
	v := uint16(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			buf.WriteByte(b)
			return
		}
		buf.WriteByte(b | 0x80)
	}
}
