package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubQuerier satisfies db.Querier without a database, returning a canned
// command tag for Exec and a canned row for QueryRow.
type stubQuerier struct {
	tag     pgconn.CommandTag
	execErr error
	row     stubRow
	gotArgs []any
}

func (s *stubQuerier) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	s.gotArgs = args
	return s.tag, s.execErr
}

func (s *stubQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (s *stubQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	s.gotArgs = args
	return s.row
}

type stubRow struct {
	exists  bool
	scanErr error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	if b, ok := dest[0].(*bool); ok {
		*b = r.exists
	}
	return nil
}

func TestForm_ReportsCreated(t *testing.T) {
	q := &stubQuerier{tag: pgconn.NewCommandTag("INSERT 0 1")}

	created, err := Form(context.Background(), q, "req-1", "client-co", "provider-co", "250")
	require.NoError(t, err)
	assert.True(t, created)

	require.Len(t, q.gotArgs, 5)
	assert.Equal(t, "req-1", q.gotArgs[1])
	assert.Equal(t, "client-co", q.gotArgs[2])
	assert.Equal(t, "provider-co", q.gotArgs[3])
	assert.Equal(t, "250", q.gotArgs[4])
}

func TestForm_RepeatIsNoOp(t *testing.T) {
	// The insert skips on the request_id unique constraint; the second call
	// must report "not newly created" without erroring.
	q := &stubQuerier{tag: pgconn.NewCommandTag("INSERT 0 0")}

	created, err := Form(context.Background(), q, "req-1", "client-co", "provider-co", "250")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestForm_PropagatesExecError(t *testing.T) {
	q := &stubQuerier{execErr: errors.New("connection lost")}

	created, err := Form(context.Background(), q, "req-1", "client-co", "provider-co", "250")
	assert.Error(t, err)
	assert.False(t, created)
}

func TestExists(t *testing.T) {
	q := &stubQuerier{row: stubRow{exists: true}}
	exists, err := Exists(context.Background(), q, "req-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []any{"req-1"}, q.gotArgs)

	q = &stubQuerier{row: stubRow{exists: false}}
	exists, err = Exists(context.Background(), q, "req-1")
	require.NoError(t, err)
	assert.False(t, exists)

	q = &stubQuerier{row: stubRow{scanErr: errors.New("connection lost")}}
	_, err = Exists(context.Background(), q, "req-1")
	assert.Error(t, err)
}
