// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package recipient

// Page is one page of resolved recipients. PerPage is the effective
// page size after clamping; zero means the page holds everything.
// HasMore reports whether a subsequent page would be non-empty; for
// combined context+user pages it may under-report when the extra item
// was in a stream the allocation excluded, an accepted approximation
// because combined listings page forward only.
type Page struct {
	Items   []Recipient `json:"items"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page,omitempty"`
	HasMore bool        `json:"has_more"`
}

// mergePage merges the context and user candidate streams into one
// page of at most size items. Both streams arrive already trimmed to
// size; moreContexts/moreUsers carry each stream's overfetch signal.
//
// A single requested kind passes through untouched. With both kinds
// requested, allocation balances: a stream that fits in half a page is
// taken whole and the other fills the remainder; otherwise contexts
// get the floor half and users the rest. Contexts always precede
// users.
func mergePage(contexts, users []Recipient, size int, moreContexts, moreUsers, wantContexts, wantUsers bool) ([]Recipient, bool) {
	switch {
	case !wantContexts && !wantUsers:
		return nil, false
	case !wantUsers:
		return contexts, moreContexts
	case !wantContexts:
		return users, moreUsers
	}

	if size <= 0 {
		return append(contexts, users...), moreContexts || moreUsers
	}

	half := size / 2
	nc, nu := len(contexts), len(users)
	switch {
	case nc <= half:
		nu = min(nu, size-nc)
	case nu <= half:
		nc = min(nc, size-nu)
	default:
		nc = half
		nu = min(nu, size-half)
	}

	items := make([]Recipient, 0, nc+nu)
	items = append(items, contexts[:nc]...)
	items = append(items, users[:nu]...)

	// A stream signals more only when some of it was kept: a hidden
	// extra item in a fully excluded stream goes unreported.
	hasMore := false
	if nc > 0 && (moreContexts || nc < len(contexts)) {
		hasMore = true
	}
	if nu > 0 && (moreUsers || nu < len(users)) {
		hasMore = true
	}
	return items, hasMore
}
