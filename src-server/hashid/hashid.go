package hashid

import (
	"fmt"

	"github.com/speps/go-hashids/v2"
)

const (
	EventSalt = "event"
	RsvpSalt  = "rsvp"
)

// Codec turns database ids into short public hashes and back.
type Codec struct {
	hd *hashids.HashID
}

// NewCodec builds a codec whose output is namespaced by scope, so the same id
// hashes differently for events and rsvps.
func NewCodec(salt string, scope string, minLength int) (*Codec, error) {
	data := hashids.NewData()
	data.Salt = salt + scope
	data.MinLength = minLength
	hd, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("NewCodec: %w", err)
	}
	return &Codec{hd: hd}, nil
}

func (c *Codec) Encode(id int64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("(*Codec).Encode: id must be positive | id=%d", id)
	}
	hash, err := c.hd.EncodeInt64([]int64{id})
	if err != nil {
		return "", fmt.Errorf("(*Codec).Encode: %w", err)
	}
	return hash, nil
}

// Decode returns the id behind hash. Anything that is not exactly one id
// encoded with this codec's salt is rejected.
func (c *Codec) Decode(hash string) (int64, error) {
	if hash == "" {
		return 0, fmt.Errorf("(*Codec).Decode: hash is blank")
	}
	ids, err := c.hd.DecodeInt64WithError(hash)
	if err != nil {
		return 0, fmt.Errorf("(*Codec).Decode: %w", err)
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("(*Codec).Decode: expected one id, got %d", len(ids))
	}
	return ids[0], nil
}

// Codecs bundles the two hash spaces the app hands out.
type Codecs struct {
	Event *Codec
	Rsvp  *Codec
}

func NewCodecs(salt string, minLength int) (*Codecs, error) {
	event, err := NewCodec(salt, EventSalt, minLength)
	if err != nil {
		return nil, err
	}
	rsvp, err := NewCodec(salt, RsvpSalt, minLength)
	if err != nil {
		return nil, err
	}
	return &Codecs{Event: event, Rsvp: rsvp}, nil
}
