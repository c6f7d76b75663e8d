// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Approval is the review state of a single generated item (one platform's
// text variant, or the image). There is no terminal state: approved and
// rejected flip freely in both directions, and any edit or successful
// regeneration drops the item back to ApprovalNone.
type Approval string

const (
	ApprovalNone     Approval = "none"
	ApprovalApproved Approval = "approved"
	ApprovalRejected Approval = "rejected"
)

// Approved reports whether the item counts toward publish eligibility.
func (a Approval) Approved() bool { return a == ApprovalApproved }
