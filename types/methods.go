package types

import (
	"bytes"
	"encoding/binary"
)

// ToBin serializes tokens as little-endian int32, matching the on-disk
// format read by cmd/wordpiece-decode.
func (tokens Tokens) ToBin() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(tokens)*TokenSize))
	for _, tok := range tokens {
		if err := binary.Write(buf, binary.LittleEndian, int32(tok)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// TokensFromBin deserializes the little-endian int32 encoding produced by
// ToBin. Trailing bytes that don't form a complete token are ignored.
func TokensFromBin(bin []byte) Tokens {
	tokens := make(Tokens, 0, len(bin)/TokenSize)
	buf := bytes.NewReader(bin)
	for {
		var raw int32
		if err := binary.Read(buf, binary.LittleEndian, &raw); err != nil {
			break
		}
		tokens = append(tokens, Token(raw))
	}
	return tokens
}
