// Package store persists the two consent collections as named blobs in a
// local SQLite file. Failures never propagate past this boundary: loads
// degrade to an empty collection and saves degrade to in-memory-only for
// the session, both with a logged warning, so that persistence trouble
// can never abort a ledger or tracker mutation.
package store

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/aurigandrea/consentd/codec"
	"github.com/aurigandrea/consentd/schema"
)

type Store struct {
	blobs Blobs
}

func New(blobs Blobs) *Store {
	return &Store{blobs: blobs}
}

// LoadRecords reads the shared records blob and decodes it with the given
// principal's key. A missing, corrupted or unparseable blob yields an
// empty collection.
func (s *Store) LoadRecords(principalEmail string) []schema.ConsentRecord {
	raw, ok, err := s.blobs.Get(schema.ConsentRecordsBlob)
	if err != nil {
		log.WithField("prefix", "store").WithError(err).Warn("fail to read records blob")
		return nil
	}
	if !ok {
		return nil
	}

	plain, err := codec.Decode(raw, principalEmail)
	if err != nil {
		log.WithField("prefix", "store").WithError(err).Warn("fail to decode records blob")
		return nil
	}

	var records []schema.ConsentRecord
	if err := json.Unmarshal([]byte(plain), &records); err != nil {
		log.WithField("prefix", "store").WithError(err).Warn("fail to parse records blob")
		return nil
	}
	return records
}

// SaveRecords serializes and encodes the record collection under the
// shared blob key. It is a no-op without a principal.
func (s *Store) SaveRecords(records []schema.ConsentRecord, principalEmail string) {
	if principalEmail == "" {
		return
	}

	data, err := json.Marshal(records)
	if err != nil {
		log.WithField("prefix", "store").WithError(err).Warn("fail to serialize records")
		return
	}

	if err := s.blobs.Set(schema.ConsentRecordsBlob, codec.Encode(string(data), principalEmail)); err != nil {
		log.WithField("prefix", "store").WithError(err).Warn("fail to write records blob, keeping in-memory state only")
	}
}

// LoadRequests reads the request collection. Requests are stored as plain
// JSON, not principal-keyed: the blob must be readable before any
// particular recipient has logged in.
func (s *Store) LoadRequests() []schema.ConsentRequest {
	raw, ok, err := s.blobs.Get(schema.ConsentRequestsBlob)
	if err != nil {
		log.WithField("prefix", "store").WithError(err).Warn("fail to read requests blob")
		return nil
	}
	if !ok {
		return nil
	}

	var requests []schema.ConsentRequest
	if err := json.Unmarshal([]byte(raw), &requests); err != nil {
		log.WithField("prefix", "store").WithError(err).Warn("fail to parse requests blob")
		return nil
	}
	return requests
}

func (s *Store) SaveRequests(requests []schema.ConsentRequest) {
	data, err := json.Marshal(requests)
	if err != nil {
		log.WithField("prefix", "store").WithError(err).Warn("fail to serialize requests")
		return
	}

	if err := s.blobs.Set(schema.ConsentRequestsBlob, string(data)); err != nil {
		log.WithField("prefix", "store").WithError(err).Warn("fail to write requests blob, keeping in-memory state only")
	}
}
