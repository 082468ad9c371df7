package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onHoldRequest(deadline time.Time) Request {
	return Request{
		ID:             "req-1",
		CompanyID:      "client-co",
		State:          StateOnHold,
		DateExpired:    now.Add(-48 * time.Hour),
		AcceptDeadline: &deadline,
	}
}

func conflictCheckRequest(selected string, remaining time.Duration) Request {
	deadline := now.Add(72 * time.Hour)
	return Request{
		ID:              "req-1",
		CompanyID:       "client-co",
		State:           StateConflictCheck,
		AcceptDeadline:  &deadline,
		SelectedOfferID: selected,
		PausedRemaining: &remaining,
	}
}

func TestBeginConflictCheck_CapturesRemainingTime(t *testing.T) {
	req := onHoldRequest(now.Add(72 * time.Hour))
	offers := []Offer{{ID: "a", Price: "100"}}

	pause, err := BeginConflictCheck(req, offers, "a", now)
	require.NoError(t, err)

	assert.Equal(t, "a", pause.SelectedOfferID)
	assert.Equal(t, 72*time.Hour, pause.Remaining)
}

func TestBeginConflictCheck_PastDeadlineClampsToZero(t *testing.T) {
	req := onHoldRequest(now.Add(-time.Minute))
	offers := []Offer{{ID: "a", Price: "100"}}

	pause, err := BeginConflictCheck(req, offers, "a", now)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), pause.Remaining)
}

func TestBeginConflictCheck_Rejections(t *testing.T) {
	offers := []Offer{
		{ID: "a", Price: "100"},
		{ID: "dq", Price: "90", Status: OfferDisqualified},
	}

	pending := onHoldRequest(now.Add(time.Hour))
	pending.State = StatePending
	_, err := BeginConflictCheck(pending, offers, "a", now)
	assert.ErrorIs(t, err, ErrNotOnHold)

	req := onHoldRequest(now.Add(time.Hour))
	_, err = BeginConflictCheck(req, offers, "missing", now)
	assert.ErrorIs(t, err, ErrOfferNotFound)

	_, err = BeginConflictCheck(req, offers, "dq", now)
	assert.ErrorIs(t, err, ErrOfferDisqualified)

	noDeadline := onHoldRequest(now)
	noDeadline.AcceptDeadline = nil
	_, err = BeginConflictCheck(noDeadline, offers, "a", now)
	assert.ErrorIs(t, err, ErrNoDeadline)
}

func TestResolveAccept_AwardsSelectedOffer(t *testing.T) {
	req := conflictCheckRequest("b", 24*time.Hour)
	offers := []Offer{
		{ID: "a", UserID: "p1", Price: "100"},
		{ID: "b", UserID: "p2", CompanyID: "provider-co", Price: "150"},
		{ID: "dq", UserID: "p3", Price: "90", Status: OfferDisqualified},
	}

	out, err := ResolveAccept(req, offers, now)
	require.NoError(t, err)

	assert.Equal(t, StateExpired, out.NextState)
	assert.Equal(t, ResultContract, out.ContractResult)
	assert.True(t, out.ClearSelection)
	require.NotNil(t, out.Award)
	assert.Equal(t, "b", out.Award.WinnerOfferID)
	assert.Equal(t, "provider-co", out.Award.WinnerCompanyID)
	assert.Equal(t, []string{"a"}, out.Award.LoserOfferIDs, "disqualified offers stay disqualified, not lost")
}

func TestResolveAccept_RepeatProducesSameOutcome(t *testing.T) {
	// The accept endpoint can be hit twice (retry, double-click). The pure
	// outcome is identical both times; the idempotent contract insert keeps
	// side effects from doubling.
	req := conflictCheckRequest("a", time.Hour)
	offers := []Offer{{ID: "a", UserID: "p1", Price: "100"}}

	first, err := ResolveAccept(req, offers, now)
	require.NoError(t, err)
	second, err := ResolveAccept(req, offers, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveAccept_Rejections(t *testing.T) {
	offers := []Offer{{ID: "a", Price: "100"}}

	req := onHoldRequest(now.Add(time.Hour))
	_, err := ResolveAccept(req, offers, now)
	assert.ErrorIs(t, err, ErrNotConflictCheck)

	noSelection := conflictCheckRequest("", time.Hour)
	_, err = ResolveAccept(noSelection, offers, now)
	assert.ErrorIs(t, err, ErrNoSelectedOffer)

	gone := conflictCheckRequest("missing", time.Hour)
	_, err = ResolveAccept(gone, offers, now)
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestResolveDeny_ResumesClockWithBankedTime(t *testing.T) {
	remaining := 3 * 24 * time.Hour
	req := conflictCheckRequest("a", remaining)
	offers := []Offer{
		{ID: "a", UserID: "p1", Price: "100"},
		{ID: "b", UserID: "p2", Price: "150"},
	}

	out, err := ResolveDeny(req, offers, now)
	require.NoError(t, err)

	assert.Equal(t, StateOnHold, out.NextState)
	assert.Equal(t, "a", out.DisqualifyOfferID)
	assert.True(t, out.ClearSelection)
	require.NotNil(t, out.AcceptDeadline)
	assert.Equal(t, now.Add(remaining), *out.AcceptDeadline)
	assert.Equal(t, []NoticeKind{NoticeDeniedChooseAgain}, noticeKinds(out.Notices))
}

func TestResolveDeny_NoBankedTimeExpiresOnNextSweep(t *testing.T) {
	req := conflictCheckRequest("a", 0)
	req.PausedRemaining = nil
	offers := []Offer{{ID: "a", UserID: "p1", Price: "100"}}

	out, err := ResolveDeny(req, offers, now)
	require.NoError(t, err)

	require.NotNil(t, out.AcceptDeadline)
	assert.Equal(t, now, *out.AcceptDeadline, "no banked time resumes at now and lapses on the next sweep")
	assert.Equal(t, []NoticeKind{NoticeDeniedNoneLeft}, noticeKinds(out.Notices))
}

func TestResolveDeny_NoneLeftWhenOnlyDisqualifiedRemain(t *testing.T) {
	req := conflictCheckRequest("a", time.Hour)
	offers := []Offer{
		{ID: "a", UserID: "p1", Price: "100"},
		{ID: "dq", UserID: "p2", Price: "90", Status: OfferDisqualified},
	}

	out, err := ResolveDeny(req, offers, now)
	require.NoError(t, err)
	assert.Equal(t, []NoticeKind{NoticeDeniedNoneLeft}, noticeKinds(out.Notices))
}

func TestExtendAcceptDeadline_SingleUse(t *testing.T) {
	deadline := now.Add(48 * time.Hour)
	req := onHoldRequest(deadline)

	extended, err := ExtendAcceptDeadline(req, now)
	require.NoError(t, err)
	assert.Equal(t, deadline.Add(ExtensionGrace), extended)

	req.ExtendedOnce = true
	_, err = ExtendAcceptDeadline(req, now)
	assert.ErrorIs(t, err, ErrAlreadyExtended)
}

func TestExtendAcceptDeadline_OnlyWhileOnHold(t *testing.T) {
	req := pendingRequest(SelectionManual)
	_, err := ExtendAcceptDeadline(req, now)
	assert.ErrorIs(t, err, ErrNotOnHold)

	cc := conflictCheckRequest("a", time.Hour)
	_, err = ExtendAcceptDeadline(cc, now)
	assert.ErrorIs(t, err, ErrNotOnHold)
}
