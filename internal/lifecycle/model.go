package lifecycle

import "time"

// Request states
type State string

const (
	StatePending       State = "pending"        // accepting offers until the submission deadline
	StateOnHold        State = "on_hold"        // awaiting the purchaser's selection or approval
	StateConflictCheck State = "conflict_check" // selected provider is being vetted; decision clock frozen
	StateExpired       State = "expired"        // terminal
)

// Winning-offer selection modes (purchaser account setting)
type SelectionMode string

const (
	SelectionAutomatic SelectionMode = "automatic"
	SelectionManual    SelectionMode = "manual"
)

// Pricing modes
type Pricing string

const (
	PricingFixed  Pricing = "fixed"
	PricingHourly Pricing = "hourly"
)

// Offer statuses
type OfferStatus string

const (
	OfferPending      OfferStatus = "pending"
	OfferWon          OfferStatus = "won"
	OfferLost         OfferStatus = "lost"
	OfferDisqualified OfferStatus = "disqualified"
)

// Terminal outcome markers stored on the request.
const (
	ResultContract   = "Yes"
	ResultNoContract = "No"
)

const (
	// AcceptWindow is how long a purchaser has to decide once offers close.
	AcceptWindow = 7 * 24 * time.Hour

	// ExtensionGrace is the single-use "need more time" extension.
	ExtensionGrace = 24 * time.Hour
)

// Request is the lifecycle view of a posted request: only the fields the
// decision logic reads. Handlers map database rows into this.
type Request struct {
	ID                   string
	CompanyID            string
	UserID               string
	Currency             string
	Pricing              Pricing
	MaximumPrice         *float64 // ceiling, only meaningful for fixed-fee pricing
	SelectionMode        SelectionMode
	State                State
	DateExpired          time.Time
	AcceptDeadline       *time.Time
	PausedRemaining      *time.Duration // decision time left when the clock was frozen
	SelectedOfferID      string
	DisqualifiedOfferIDs []string
	ContractResult       string // "", "Yes" or "No"
	ExtendedOnce         bool
}

// Offer is the lifecycle view of a provider's bid. Price is kept as entered;
// the selector parses it and skips anything non-numeric.
type Offer struct {
	ID        string
	RequestID string
	CompanyID string
	UserID    string
	Price     string
	Status    OfferStatus
}

// Sweep summary buckets, one per transition class.
type Bucket string

const (
	BucketNoOffersExpired  Bucket = "no_offers_expired"
	BucketOnHoldManual     Bucket = "on_hold_manual"
	BucketAutoAwarded      Bucket = "auto_awarded"
	BucketOnHoldOverBudget Bucket = "on_hold_over_budget"
	BucketOnHoldExpired    Bucket = "on_hold_expired"
)

// Notice kinds emitted by transitions. Recipient resolution and delivery live
// in the alerts package; the engine only says what happened to whom.
type NoticeKind string

const (
	NoticeNoOffers          NoticeKind = "no_offers"
	NoticeAwaitingSelection NoticeKind = "offers_awaiting_selection"
	NoticeOverBudget        NoticeKind = "offers_over_budget"
	NoticeContractFormed    NoticeKind = "contract_formed"     // purchaser
	NoticeContractWon       NoticeKind = "contract_won"        // winning provider
	NoticeNotSelected       NoticeKind = "offer_not_selected"  // losing provider, subscription-gated
	NoticeDeniedChooseAgain NoticeKind = "offer_denied_choose_again"
	NoticeDeniedNoneLeft    NoticeKind = "offer_denied_none_left"
	NoticeConflictPending   NoticeKind = "conflict_check_pending" // admins
	NoticeDeadlineExtended  NoticeKind = "deadline_extended"
)

// Notice is an intended notification, produced as data and dispatched after
// the transition commits.
type Notice struct {
	Kind           NoticeKind
	RequestID      string
	OfferID        string
	ProviderUserID string
}

// ContractGated reports whether this notice may only be sent by the call that
// actually created the contract row. Repeat accepts and overlapping sweeps
// must not re-send these.
func (n Notice) ContractGated() bool {
	switch n.Kind {
	case NoticeContractFormed, NoticeContractWon, NoticeNotSelected:
		return true
	}
	return false
}

// Award names the winning offer and the siblings to mark lost.
type Award struct {
	WinnerOfferID   string
	WinnerCompanyID string
	WinnerUserID    string
	Price           string
	LoserOfferIDs   []string
}

// Outcome is the full effect list of one transition. The applier executes the
// request/offer/contract writes in a single transaction, then dispatches
// Notices best-effort.
type Outcome struct {
	RequestID         string
	NextState         State
	ContractResult    string     // "" leaves the column untouched
	AcceptDeadline    *time.Time // set when entering or resuming on_hold
	ClearSelection    bool       // clear selected_offer_id and the pause snapshot
	DisqualifyOfferID string     // deny path
	Award             *Award
	Notices           []Notice
	Bucket            Bucket
}
