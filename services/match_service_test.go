package services

import (
	"context"
	"errors"
	"testing"

	"thingsmatch_server/models"
)

func TestExpressInterestCreatesPendingMatch(t *testing.T) {
	core := newTestCore(availableItem("item-1", "owner-1"))
	ctx := context.Background()

	match, msg, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "  I'd love this chair  ")
	if err != nil {
		t.Fatalf("ExpressInterest: %v", err)
	}
	if match.Status != models.MatchStatusPending {
		t.Errorf("status = %q, want %q", match.Status, models.MatchStatusPending)
	}
	if match.OwnerID != "owner-1" || match.SwiperID != "swiper-1" {
		t.Errorf("participants = %s/%s", match.OwnerID, match.SwiperID)
	}
	if !match.DefaultMsgSent {
		t.Error("DefaultMsgSent not set after opening message")
	}
	if msg.Content != "I'd love this chair" {
		t.Errorf("opening message content = %q, want trimmed", msg.Content)
	}
	if !msg.IsDefaultMsg {
		t.Error("opening message not flagged as default")
	}
	if msg.ReceiverID != "owner-1" {
		t.Errorf("opening message receiver = %q, want owner", msg.ReceiverID)
	}
	item, _ := core.items.GetItem(ctx, "item-1")
	if item.InterestCount != 1 {
		t.Errorf("interestCount = %d, want 1", item.InterestCount)
	}
	if got := core.notify.events; len(got) != 1 || got[0] != models.EventInterestExpressed {
		t.Errorf("notifications = %v", got)
	}
}

func TestExpressInterestValidation(t *testing.T) {
	core := newTestCore(availableItem("item-1", "owner-1"))
	ctx := context.Background()

	if _, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "   "); !errors.Is(err, ErrValidation) {
		t.Errorf("empty message err = %v, want ErrValidation", err)
	}
	if _, _, err := core.matches.ExpressInterest(ctx, "item-1", "owner-1", "mine"); !errors.Is(err, ErrConflict) {
		t.Errorf("self-interest err = %v, want ErrConflict", err)
	}
	if _, _, err := core.matches.ExpressInterest(ctx, "no-such-item", "swiper-1", "hi"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing item err = %v, want ErrNotFound", err)
	}

	gone := availableItem("item-2", "owner-1")
	gone.Status = models.ItemStatusGivenAway
	core.items.items["item-2"] = gone
	if _, _, err := core.matches.ExpressInterest(ctx, "item-2", "swiper-1", "hi"); !errors.Is(err, ErrConflict) {
		t.Errorf("given-away item err = %v, want ErrConflict", err)
	}
}

func TestExpressInterestDuplicateTriple(t *testing.T) {
	core := newTestCore(availableItem("item-1", "owner-1"))
	ctx := context.Background()

	if _, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "hi"); err != nil {
		t.Fatalf("first swipe: %v", err)
	}
	if _, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "hi again"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate while pending err = %v, want ErrConflict", err)
	}

	// Still conflicted after the owner accepts.
	match, _ := core.store.GetByTriple(ctx, models.MatchTripleKey("owner-1", "swiper-1", "item-1"))
	if _, err := core.matches.ConfirmMatch(ctx, match.MatchID, "owner-1"); err != nil {
		t.Fatalf("ConfirmMatch: %v", err)
	}
	if _, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "hi again"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate while active err = %v, want ErrConflict", err)
	}
}

func TestExpressInterestReactivatesUnmatched(t *testing.T) {
	core := newTestCore(availableItem("item-1", "owner-1"))
	ctx := context.Background()

	first, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "hello")
	if err != nil {
		t.Fatalf("first swipe: %v", err)
	}
	if _, err := core.matches.UpdateStatus(ctx, first.MatchID, models.MatchStatusUnmatched, "swiper-1"); err != nil {
		t.Fatalf("unmatch: %v", err)
	}

	second, msg, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "changed my mind")
	if err != nil {
		t.Fatalf("second swipe: %v", err)
	}
	if second.MatchID != first.MatchID {
		t.Errorf("reactivation minted a new matchId: %s != %s", second.MatchID, first.MatchID)
	}
	if second.Status != models.MatchStatusPending {
		t.Errorf("status = %q, want pending", second.Status)
	}
	if second.MatchedAt != "" || second.UnmatchedAt != "" {
		t.Errorf("timestamps not reset: matchedAt=%q unmatchedAt=%q", second.MatchedAt, second.UnmatchedAt)
	}
	if !msg.IsDefaultMsg {
		t.Error("reactivation message not flagged as default")
	}

	// Blocked is a dead end, no reactivation.
	if _, err := core.matches.UpdateStatus(ctx, second.MatchID, models.MatchStatusBlocked, "owner-1"); err != nil {
		t.Fatalf("block: %v", err)
	}
	if _, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "again"); !errors.Is(err, ErrConflict) {
		t.Errorf("swipe on blocked match err = %v, want ErrConflict", err)
	}
}

func TestConfirmMatch(t *testing.T) {
	core := newTestCore(availableItem("item-1", "owner-1"))
	ctx := context.Background()

	match, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "hello")
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}

	if _, err := core.matches.ConfirmMatch(ctx, match.MatchID, "swiper-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("swiper confirm err = %v, want ErrForbidden", err)
	}

	confirmed, err := core.matches.ConfirmMatch(ctx, match.MatchID, "owner-1")
	if err != nil {
		t.Fatalf("ConfirmMatch: %v", err)
	}
	if confirmed.Status != models.MatchStatusActive {
		t.Errorf("status = %q, want active", confirmed.Status)
	}
	if confirmed.MatchedAt == "" {
		t.Error("matchedAt not stamped")
	}

	// Idempotent: same status and timestamp, no second fan-out.
	before := len(core.notify.events)
	again, err := core.matches.ConfirmMatch(ctx, match.MatchID, "owner-1")
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if again.MatchedAt != confirmed.MatchedAt {
		t.Errorf("matchedAt moved on repeat confirm: %q -> %q", confirmed.MatchedAt, again.MatchedAt)
	}
	if len(core.notify.events) != before {
		t.Error("repeat confirm produced a new notification")
	}

	if _, err := core.matches.UpdateStatus(ctx, match.MatchID, models.MatchStatusBlocked, "owner-1"); err != nil {
		t.Fatalf("block: %v", err)
	}
	if _, err := core.matches.ConfirmMatch(ctx, match.MatchID, "owner-1"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("confirm blocked match err = %v, want ErrInvalidState", err)
	}
}

func TestUpdateStatusUnmatchReleasesInterest(t *testing.T) {
	core := newTestCore(availableItem("item-1", "owner-1"))
	ctx := context.Background()

	match, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "hello")
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}
	item, _ := core.items.GetItem(ctx, "item-1")
	if item.InterestCount != 1 {
		t.Fatalf("interestCount = %d after swipe", item.InterestCount)
	}

	if _, err := core.matches.UpdateStatus(ctx, match.MatchID, models.MatchStatusUnmatched, "swiper-1"); err != nil {
		t.Fatalf("unmatch: %v", err)
	}
	item, _ = core.items.GetItem(ctx, "item-1")
	if item.InterestCount != 0 {
		t.Errorf("interestCount = %d after unmatch, want 0", item.InterestCount)
	}

	stored, _ := core.store.GetByID(ctx, match.MatchID)
	if stored.UnmatchedAt == "" {
		t.Error("unmatchedAt not stamped")
	}
}

func TestUpdateStatusGuards(t *testing.T) {
	core := newTestCore(availableItem("item-1", "owner-1"))
	ctx := context.Background()

	match, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "hello")
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}

	if _, err := core.matches.UpdateStatus(ctx, match.MatchID, "exploded", "owner-1"); !errors.Is(err, ErrValidation) {
		t.Errorf("bad status err = %v, want ErrValidation", err)
	}
	if _, err := core.matches.UpdateStatus(ctx, match.MatchID, models.MatchStatusBlocked, "stranger"); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-participant err = %v, want ErrForbidden", err)
	}
	stored, _ := core.store.GetByID(ctx, match.MatchID)
	if stored.Status != models.MatchStatusPending {
		t.Errorf("rejected update mutated status to %q", stored.Status)
	}

	// Setting the current status again is a no-op, not an error.
	if _, err := core.matches.UpdateStatus(ctx, match.MatchID, models.MatchStatusBlocked, "owner-1"); err != nil {
		t.Fatalf("block: %v", err)
	}
	if _, err := core.matches.UpdateStatus(ctx, match.MatchID, models.MatchStatusBlocked, "owner-1"); err != nil {
		t.Errorf("idempotent block err = %v", err)
	}
}

func TestUpdateStatusTerminalIsFinal(t *testing.T) {
	terminal := []string{
		models.MatchStatusBlocked,
		models.MatchStatusCompletedByOwner,
		models.MatchStatusCompletedBySwiper,
		models.MatchStatusArchived,
	}
	for _, status := range terminal {
		t.Run(status, func(t *testing.T) {
			core := newTestCore(availableItem("item-1", "owner-1"))
			ctx := context.Background()

			match, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "hello")
			if err != nil {
				t.Fatalf("swipe: %v", err)
			}
			if _, err := core.matches.UpdateStatus(ctx, match.MatchID, status, "owner-1"); err != nil {
				t.Fatalf("conclude as %s: %v", status, err)
			}

			// A concluded match cannot be walked back to unmatched to make
			// the triple swipeable again.
			if _, err := core.matches.UpdateStatus(ctx, match.MatchID, models.MatchStatusUnmatched, "swiper-1"); !errors.Is(err, ErrInvalidState) {
				t.Fatalf("%s -> unmatched err = %v, want ErrInvalidState", status, err)
			}
			stored, _ := core.store.GetByID(ctx, match.MatchID)
			if stored.Status != status {
				t.Errorf("status = %q after rejected transition, want %q", stored.Status, status)
			}
			if _, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "again"); !errors.Is(err, ErrConflict) {
				t.Errorf("swipe on %s match err = %v, want ErrConflict", status, err)
			}

			// Nor can one final state be traded for another.
			if _, err := core.matches.UpdateStatus(ctx, match.MatchID, models.MatchStatusArchived, "owner-1"); status != models.MatchStatusArchived && !errors.Is(err, ErrInvalidState) {
				t.Errorf("%s -> archived err = %v, want ErrInvalidState", status, err)
			}
		})
	}
}

func TestListForParticipantOrderingAndFiltering(t *testing.T) {
	core := newTestCore(
		availableItem("item-1", "owner-1"),
		availableItem("item-2", "owner-1"),
		availableItem("item-3", "owner-1"),
	)
	ctx := context.Background()

	first, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "first")
	if err != nil {
		t.Fatalf("swipe 1: %v", err)
	}
	second, _, err := core.matches.ExpressInterest(ctx, "item-2", "swiper-1", "second")
	if err != nil {
		t.Fatalf("swipe 2: %v", err)
	}
	third, _, err := core.matches.ExpressInterest(ctx, "item-3", "swiper-1", "third")
	if err != nil {
		t.Fatalf("swipe 3: %v", err)
	}

	if _, err := core.matches.UpdateStatus(ctx, third.MatchID, models.MatchStatusUnmatched, "swiper-1"); err != nil {
		t.Fatalf("unmatch: %v", err)
	}

	// A fresh message on the older match bumps it to the top.
	if _, err := core.matches.ConfirmMatch(ctx, first.MatchID, "owner-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := core.messages.Send(ctx, first.MatchID, "owner-1", "swiper-1", "come get it"); err != nil {
		t.Fatalf("send: %v", err)
	}

	list, err := core.matches.ListForParticipant(ctx, "swiper-1")
	if err != nil {
		t.Fatalf("ListForParticipant: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2 (unmatched hidden)", len(list))
	}
	if list[0].MatchID != first.MatchID || list[1].MatchID != second.MatchID {
		t.Errorf("order = [%s %s], want most recent conversation first", list[0].MatchID, list[1].MatchID)
	}
	for _, m := range list {
		if m.MatchID == third.MatchID {
			t.Error("unmatched match leaked into the list")
		}
	}
}

func TestGetByIDParticipantOnly(t *testing.T) {
	core := newTestCore(availableItem("item-1", "owner-1"))
	ctx := context.Background()

	match, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "hello")
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}
	if _, err := core.matches.GetByID(ctx, match.MatchID, "owner-1"); err != nil {
		t.Errorf("owner GetByID: %v", err)
	}
	if _, err := core.matches.GetByID(ctx, match.MatchID, "stranger"); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger GetByID err = %v, want ErrForbidden", err)
	}
	if _, err := core.matches.GetByID(ctx, "no-such-match", "owner-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing match err = %v, want ErrNotFound", err)
	}
}

func TestArchiveForItemSkipsTerminal(t *testing.T) {
	core := newTestCore(availableItem("item-1", "owner-1"))
	ctx := context.Background()

	active, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-1", "hello")
	if err != nil {
		t.Fatalf("swipe 1: %v", err)
	}
	if _, err := core.matches.ConfirmMatch(ctx, active.MatchID, "owner-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	done, _, err := core.matches.ExpressInterest(ctx, "item-1", "swiper-2", "me too")
	if err != nil {
		t.Fatalf("swipe 2: %v", err)
	}
	if _, err := core.matches.UpdateStatus(ctx, done.MatchID, models.MatchStatusCompletedByOwner, "owner-1"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := core.matches.ArchiveForItem(ctx, "item-1", "owner-1"); err != nil {
		t.Fatalf("ArchiveForItem: %v", err)
	}

	got, _ := core.store.GetByID(ctx, active.MatchID)
	if got.Status != models.MatchStatusArchived {
		t.Errorf("active match status = %q, want archived", got.Status)
	}
	got, _ = core.store.GetByID(ctx, done.MatchID)
	if got.Status != models.MatchStatusCompletedByOwner {
		t.Errorf("completed match status = %q, want untouched", got.Status)
	}
}
