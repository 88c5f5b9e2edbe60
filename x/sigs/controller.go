package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/crypto"
	"github.com/mixbytes/crowdsale/errors"
)

// signPrefix versions the layout produced by BuildSignBytes.
var signPrefix = [4]byte{0, 0x5a, 0x1e, 1}

// VerifyTxSignatures checks every signature of tx and bumps the sequence of
// each signer. It returns the signer conditions in signature order. An
// unsigned transaction yields an empty list, a single bad signature fails
// the whole transaction.
func VerifyTxSignatures(db crowdsale.KVStore, tx SignedTx, chainID string) ([]crowdsale.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()
	signers := make([]crowdsale.Condition, len(sigs))
	for i, sig := range sigs {
		if signers[i], err = VerifySignature(db, sig, payload, chainID); err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
	}
	return signers, nil
}

// VerifySignature checks one signature of payload and consumes its sequence.
func VerifySignature(db crowdsale.KVStore, sig *StdSignature, payload []byte, chainID string) (crowdsale.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	b := NewBucket()
	user, err := b.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := b.Save(db, user); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes returns the sha512 digest that is actually signed:
//
//	prefix  | len(chainID) | chainID | sequence        | payload
//	4 bytes | 1 byte       | ascii   | 8 bytes, big en | serialized tx
//
// Binding the chain id and the sequence makes a signature useless on any
// other chain and for any replay.
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !crowdsale.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	buf := make([]byte, 0, len(signPrefix)+1+len(chainID)+8+len(payload))
	buf = append(buf, signPrefix[:]...)
	buf = append(buf, byte(len(chainID)))
	buf = append(buf, chainID...)
	var s [8]byte
	binary.BigEndian.PutUint64(s[:], uint64(seq))
	buf = append(buf, s[:]...)
	buf = append(buf, payload...)

	digest := sha512.Sum512(buf)
	return digest[:], nil
}

// SignTx signs tx for chainID with the given sequence.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, seq)
	if err != nil {
		return nil, err
	}
	raw, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{Pubkey: signer.PublicKey(), Signature: raw, Sequence: seq}, nil
}

// NextSequence returns the sequence the next signature of pubkey must carry.
func NextSequence(db crowdsale.ReadOnlyKVStore, pubkey *crypto.PublicKey) (int64, error) {
	user, err := NewBucket().GetOrCreate(db, pubkey)
	if err != nil {
		return 0, err
	}
	return user.Sequence, nil
}
