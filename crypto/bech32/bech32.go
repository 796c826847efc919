// Package bech32 converts between byte payloads and their bech32 text form.
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"

	"github.com/iov-one/authtoken/errors"
)

// Decode returns the human readable part and the payload of text.
func Decode(text string) (string, []byte, error) {
	hrp, groups, err := bech32.Decode(text)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	payload, err := regroup(groups, 5, 8, false)
	if err != nil {
		return "", nil, err
	}
	return hrp, payload, nil
}

// Encode returns the bech32 text of payload with given human readable part.
func Encode(hrp string, payload []byte) (string, error) {
	groups, err := regroup(payload, 8, 5, true)
	if err != nil {
		return "", err
	}
	text, err := bech32.Encode(hrp, groups)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	return text, nil
}

func regroup(data []byte, from, to uint8, pad bool) ([]byte, error) {
	res, err := bech32.ConvertBits(data, from, to, pad)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bech32 %d to %d bits: %s", from, to, err)
	}
	return res, nil
}
