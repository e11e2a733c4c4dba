package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/aurigandrea/consentd/schema"
	"github.com/aurigandrea/consentd/store"
)

type LedgerTestSuite struct {
	suite.Suite
	store  *store.Store
	ledger *Ledger
	now    time.Time
}

func (s *LedgerTestSuite) SetupTest() {
	s.store = store.New(store.NewMemoryBlobs())
	s.now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.ledger = s.newLedger("u@x.com")
}

// newLedger builds a ledger with a deterministic clock that advances one
// minute per observation and sequential ids.
func (s *LedgerTestSuite) newLedger(email string) *Ledger {
	l := New(s.store, schema.Principal{Email: email, DisplayName: "U"})
	seq := 0
	l.newID = func() string {
		seq++
		return fmt.Sprintf("rec-%d", seq)
	}
	l.clock = func() time.Time {
		s.now = s.now.Add(time.Minute)
		return s.now
	}
	return l
}

func (s *LedgerTestSuite) TestAppendAssignsFields() {
	record, err := s.ledger.Append(schema.RecordDraft{
		SubjectName: "Jane Doe",
		Activity:    "Photo use",
		ConsentDate: "2024-01-10",
	})

	s.NoError(err)
	s.Equal("rec-1", record.ID)
	s.Equal("Jane Doe", record.SubjectName)
	s.Equal("Photo use", record.Activity)
	s.Equal("2024-01-10", record.ConsentDate)
	s.Equal("u@x.com", record.RecordedByEmail)
	s.False(record.RecordedAt.IsZero())
	s.Empty(record.SourceRequestID)
}

func (s *LedgerTestSuite) TestAppendValidation() {
	cases := []schema.RecordDraft{
		{Activity: "Photo use", ConsentDate: "2024-01-10"},
		{SubjectName: "Jane Doe", ConsentDate: "2024-01-10"},
		{SubjectName: "Jane Doe", Activity: "Photo use"},
		{SubjectName: "   ", Activity: "Photo use", ConsentDate: "2024-01-10"},
	}

	for _, draft := range cases {
		_, err := s.ledger.Append(draft)
		s.ErrorIs(err, schema.ErrValidation)
	}
	s.Empty(s.ledger.List())
}

func (s *LedgerTestSuite) TestListNewestFirst() {
	for _, name := range []string{"first", "second", "third"} {
		_, err := s.ledger.Append(schema.RecordDraft{SubjectName: name, Activity: "a", ConsentDate: "2024-01-10"})
		s.NoError(err)
	}

	listed := s.ledger.List()
	s.Len(listed, 3)
	s.Equal("third", listed[0].SubjectName)
	s.Equal("second", listed[1].SubjectName)
	s.Equal("first", listed[2].SubjectName)
}

func (s *LedgerTestSuite) TestWithdraw() {
	record, err := s.ledger.Append(schema.RecordDraft{SubjectName: "Jane Doe", Activity: "Photo use", ConsentDate: "2024-01-10"})
	s.NoError(err)
	s.Len(s.ledger.List(), 1)

	s.NoError(s.ledger.Withdraw(record.ID))
	s.Empty(s.ledger.List())
}

func (s *LedgerTestSuite) TestWithdrawMissing() {
	s.ErrorIs(s.ledger.Withdraw("no-such-id"), schema.ErrNotFound)
}

func (s *LedgerTestSuite) TestFilter() {
	_, err := s.ledger.Append(schema.RecordDraft{SubjectName: "Jane Doe", Activity: "Photo use", ConsentDate: "2024-01-10"})
	s.NoError(err)
	_, err = s.ledger.Append(schema.RecordDraft{SubjectName: "Bob", Activity: "Data sharing", ConsentDate: "2024-01-11"})
	s.NoError(err)

	s.Len(s.ledger.Filter("jane"), 1)
	s.Len(s.ledger.Filter("SHARING"), 1)
	s.Len(s.ledger.Filter("u@x.com"), 2)
	s.Empty(s.ledger.Filter("xyz"))
	s.Len(s.ledger.Filter(""), 2)

	// filtering never mutates the ledger
	s.Len(s.ledger.List(), 2)
}

func (s *LedgerTestSuite) TestPersistsAcrossReload() {
	_, err := s.ledger.Append(schema.RecordDraft{SubjectName: "Jane Doe", Activity: "Photo use", ConsentDate: "2024-01-10"})
	s.NoError(err)

	reloaded := s.newLedger("u@x.com")
	s.Len(reloaded.List(), 1)
	s.Equal("Jane Doe", reloaded.List()[0].SubjectName)
}

func (s *LedgerTestSuite) TestSharedAcrossPrincipals() {
	_, err := s.ledger.Append(schema.RecordDraft{SubjectName: "Jane Doe", Activity: "Photo use", ConsentDate: "2024-01-10"})
	s.NoError(err)

	other := s.newLedger("someone.else@example.com")
	s.Len(other.List(), 1)
}

// failingBlobs reads fine but refuses every write, like a full disk.
type failingBlobs struct {
	*store.MemoryBlobs
}

func (failingBlobs) Set(name, value string) error {
	return fmt.Errorf("disk full")
}

func (s *LedgerTestSuite) TestMutationsSurviveSaveFailure() {
	s.store = store.New(failingBlobs{store.NewMemoryBlobs()})
	l := s.newLedger("u@x.com")

	// the in-memory state stays authoritative for the session even when
	// persistence fails
	record, err := l.Append(schema.RecordDraft{SubjectName: "Jane Doe", Activity: "Photo use", ConsentDate: "2024-01-10"})
	s.NoError(err)
	s.Len(l.List(), 1)

	s.NoError(l.Withdraw(record.ID))
	s.Empty(l.List())
}

func TestLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}
