package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/aurigandrea/consentd/schema"
)

type StoreTestSuite struct {
	suite.Suite
	db    *sql.DB
	store *Store
}

func (s *StoreTestSuite) SetupTest() {
	db, err := Open(filepath.Join(s.T().TempDir(), "consentd.db"))
	if err != nil {
		s.T().Fatalf("open test database with error: %s", err)
	}
	s.db = db
	s.store = New(NewSQLiteBlobs(db))
}

func (s *StoreTestSuite) TearDownTest() {
	s.NoError(s.db.Close())
}

func (s *StoreTestSuite) TestLoadRecordsEmpty() {
	s.Empty(s.store.LoadRecords("u@x.com"))
}

func (s *StoreTestSuite) TestSaveAndLoadRecords() {
	records := []schema.ConsentRecord{
		{
			ID:              "r1",
			SubjectName:     "Jane Doe",
			Activity:        "Photo use",
			ConsentDate:     "2024-01-10",
			RecordedAt:      time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
			RecordedByEmail: "u@x.com",
		},
	}

	s.store.SaveRecords(records, "u@x.com")
	s.Equal(records, s.store.LoadRecords("u@x.com"))
}

func (s *StoreTestSuite) TestRecordsBlobSharedAcrossPrincipals() {
	records := []schema.ConsentRecord{{ID: "r1", SubjectName: "Jane Doe", Activity: "Photo use", ConsentDate: "2024-01-10"}}

	s.store.SaveRecords(records, "alice@example.com")
	s.Equal(records, s.store.LoadRecords("bob@example.com"))
}

func (s *StoreTestSuite) TestRecordsBlobIsObfuscated() {
	s.store.SaveRecords([]schema.ConsentRecord{{ID: "r1", SubjectName: "Jane Doe"}}, "u@x.com")

	var raw string
	err := s.db.QueryRow(`SELECT value FROM blobs WHERE name = ?`, schema.ConsentRecordsBlob).Scan(&raw)
	s.NoError(err)
	s.NotContains(raw, "Jane Doe")
}

func (s *StoreTestSuite) TestSaveRecordsWithoutPrincipal() {
	s.store.SaveRecords([]schema.ConsentRecord{{ID: "r1"}}, "")

	err := s.db.QueryRow(`SELECT value FROM blobs WHERE name = ?`, schema.ConsentRecordsBlob).Scan(new(string))
	s.Equal(sql.ErrNoRows, err)
}

func (s *StoreTestSuite) TestLoadRecordsCorruptedBlob() {
	_, err := s.db.Exec(`INSERT INTO blobs (name, value) VALUES (?, ?)`, schema.ConsentRecordsBlob, "!!not base64!!")
	s.NoError(err)

	s.Empty(s.store.LoadRecords("u@x.com"))
}

func (s *StoreTestSuite) TestSaveAndLoadRequests() {
	requests := []schema.ConsentRequest{
		{
			ID:             "q1",
			RequesterEmail: "u@x.com",
			RecipientEmail: "a@b.com",
			RecipientName:  "A",
			Activity:       "Data sharing",
			Status:         schema.StatusPending,
			CreatedAt:      time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
		},
	}

	s.store.SaveRequests(requests)
	s.Equal(requests, s.store.LoadRequests())
}

func (s *StoreTestSuite) TestRequestsBlobIsPlainJSON() {
	s.store.SaveRequests([]schema.ConsentRequest{{ID: "q1", Activity: "Data sharing", Status: schema.StatusPending}})

	var raw string
	err := s.db.QueryRow(`SELECT value FROM blobs WHERE name = ?`, schema.ConsentRequestsBlob).Scan(&raw)
	s.NoError(err)
	s.Contains(raw, "Data sharing")
}

func (s *StoreTestSuite) TestLoadRequestsCorruptedBlob() {
	_, err := s.db.Exec(`INSERT INTO blobs (name, value) VALUES (?, ?)`, schema.ConsentRequestsBlob, "{broken")
	s.NoError(err)

	s.Empty(s.store.LoadRequests())
}

func (s *StoreTestSuite) TestSaveOverwrites() {
	s.store.SaveRequests([]schema.ConsentRequest{{ID: "q1"}, {ID: "q2"}})
	s.store.SaveRequests([]schema.ConsentRequest{{ID: "q2"}})

	loaded := s.store.LoadRequests()
	s.Len(loaded, 1)
	s.Equal("q2", loaded[0].ID)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
