package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	for _, good := range []string{"a@b.com", "first.last+tag@sub.example.co.uk", "u@x.io"} {
		assert.True(t, ValidEmail(good), good)
	}
	for _, bad := range []string{"not-an-email", "a b@c.com", "a@b", "@b.com", "a@.com", ""} {
		assert.False(t, ValidEmail(bad), bad)
	}
}

func TestUrgent(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, ConsentRequest{Deadline: "2024-03-05"}.Urgent(now))
	assert.True(t, ConsentRequest{Deadline: "2024-03-08"}.Urgent(now))
	// past deadlines are overdue, which still counts as urgent
	assert.True(t, ConsentRequest{Deadline: "2024-02-20"}.Urgent(now))

	assert.False(t, ConsentRequest{Deadline: "2024-03-20"}.Urgent(now))
	assert.False(t, ConsentRequest{}.Urgent(now))
	assert.False(t, ConsentRequest{Deadline: "soon"}.Urgent(now))
}

func TestPrincipalName(t *testing.T) {
	assert.Equal(t, "U", Principal{Email: "u@x.com", DisplayName: "U"}.Name())
	assert.Equal(t, "u@x.com", Principal{Email: "u@x.com"}.Name())
}
