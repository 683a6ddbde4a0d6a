// Package history persists the configured networks that were found in range.
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/shazow/wifiswitch/wifi"
)

const (
	bucketMatches = "matches" // key: big endian unix nanos + id -> Record JSON
	bucketLatest  = "latest"  // key: section -> Record JSON
)

// Record is one configured network seen in a scan.
type Record struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	Section    string    `json:"section"`
	SSID       string    `json:"ssid"`
	Encryption string    `json:"encryption"`
	BSSID      string    `json:"bssid,omitempty"`
	Signal     uint8     `json:"signal,omitempty"`
}

// Store is a bbolt backed match history.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketMatches)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketLatest)); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func matchKey(t time.Time, id string) []byte {
	key := make([]byte, 8, 8+len(id))
	binary.BigEndian.PutUint64(key, uint64(t.UnixNano()))
	return append(key, id...)
}

// Add records every match with the same timestamp and returns the records.
func (s *Store) Add(matches []wifi.Match) ([]Record, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	now := s.now().UTC()
	records := make([]Record, 0, len(matches))
	for _, m := range matches {
		records = append(records, Record{
			ID:         uuid.New().String(),
			Time:       now,
			Section:    m.Configured.Section,
			SSID:       m.Configured.SSID,
			Encryption: m.Configured.Encryption.String(),
			BSSID:      m.Scanned.BSSID,
			Signal:     m.Scanned.Signal,
		})
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		var (
			all    = tx.Bucket([]byte(bucketMatches))
			latest = tx.Bucket([]byte(bucketLatest))
		)
		for _, r := range records {
			data, err := json.Marshal(&r)
			if err != nil {
				return err
			}
			if err := all.Put(matchKey(r.Time, r.ID), data); err != nil {
				return err
			}
			if r.Section == "" {
				continue
			}
			if err := latest.Put([]byte(r.Section), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// List returns up to limit records, newest first. A limit of 0 returns all.
func (s *Store) List(limit int) ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(bucketMatches)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			records = append(records, r)
			if limit > 0 && len(records) >= limit {
				break
			}
		}
		return nil
	})
	return records, err
}

// ErrNeverSeen is returned by LastSeen for a section without records.
var ErrNeverSeen = errors.New("never seen")

// LastSeen returns the most recent record of a configured section.
func (s *Store) LastSeen(section string) (Record, error) {
	var r Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketLatest)).Get([]byte(section))
		if data == nil {
			return ErrNeverSeen
		}
		return json.Unmarshal(data, &r)
	})
	return r, err
}
