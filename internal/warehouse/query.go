package warehouse

import "strings"

// Pagination bounds enforced on every statement.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Identifiers are compile-time constants. Request input only ever flows into
// bound parameters, never into the statement text.
const emailsTable = "dev.core.emails"

var emailColumns = []string{
	"email_id",
	"thread_id",
	"subject",
	"from_name",
	"from_email",
	"to_recipients",
	"cc_recipients",
	"sent_at",
	"received_at",
	"received_date",
	"snippet",
	"labels",
	"is_read",
	"is_starred",
	"has_attachments",
	"attachments",
	"message_size_bytes",
	"created_at",
}

// Filter holds the optional predicates and pagination for one email query.
// It lives for a single request.
type Filter struct {
	Subject   string
	FromEmail string
	IsRead    *bool
	IsStarred *bool
	Limit     int
	Offset    int
}

// Statement is a SQL statement template plus its bound parameters, in order.
type Statement struct {
	Text   string `json:"text"`
	Params []any  `json:"params"`
}

// Statement builds the filtered, paginated SELECT over the emails table.
// String filters become case-insensitive contains predicates, boolean filters
// become equality predicates, all joined with AND. LIMIT and OFFSET are always
// the final two parameters. The HTTP boundary rejects out-of-range pagination
// before we get here; the clamp below keeps the invariant for programmatic
// callers too.
func (f Filter) Statement() Statement {
	var preds []string
	var params []any

	if s := strings.TrimSpace(f.Subject); s != "" {
		preds = append(preds, "upper(subject) LIKE upper(?)")
		params = append(params, "%"+s+"%")
	}
	if s := strings.TrimSpace(f.FromEmail); s != "" {
		preds = append(preds, "upper(from_email) LIKE upper(?)")
		params = append(params, "%"+s+"%")
	}
	if f.IsRead != nil {
		preds = append(preds, "is_read = ?")
		params = append(params, *f.IsRead)
	}
	if f.IsStarred != nil {
		preds = append(preds, "is_starred = ?")
		params = append(params, *f.IsStarred)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(emailColumns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(emailsTable)
	if len(preds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(preds, " AND "))
	}
	b.WriteString(" ORDER BY received_at DESC LIMIT ? OFFSET ?")

	params = append(params, clampLimit(f.Limit), clampOffset(f.Offset))
	return Statement{Text: b.String(), Params: params}
}

func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
