// Package actors provides concurrent workloads that hammer the agreement
// lifecycle through its real service layer while oracles watch the database
// for invariant violations.
package actors

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Atan0707/wemsp-v2-sub000/agreement"
	"github.com/Atan0707/wemsp-v2-sub000/faraid"
)

// Creator keeps creating draft agreements for the owner. Validation failures
// are bugs; everything the creator submits is well formed.
func Creator(ctx context.Context, crud *agreement.CRUDService, ownerID, heirID string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, err := crud.Create(ctx, agreement.CreateParams{
			OwnerID:          ownerID,
			Title:            "stress draft",
			DistributionType: agreement.DistributionHibah,
			Beneficiaries: []agreement.Beneficiary{
				{FamilyMemberID: &heirID, Relation: faraid.RelationSon, SharePercentage: 100},
			},
			Assets: []agreement.AssetAllocation{{AssetID: "asset-1"}},
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Signer races duplicate signatures against the shared agreement. Replays
// must come back as success without inserting a second row.
func Signer(ctx context.Context, svc *agreement.Service, agreementID, ownerID string, beneficiaryIDs []string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		params := agreement.SignParams{
			AgreementID: agreementID,
			SignerID:    ownerID,
			SignerType:  agreement.SignerOwner,
		}
		switch {
		case len(beneficiaryIDs) > 0 && rand.Intn(3) == 0:
			params.SignerType = agreement.SignerBeneficiary
			params.BeneficiaryID = beneficiaryIDs[rand.Intn(len(beneficiaryIDs))]
		case rand.Intn(3) == 0:
			params.SignerType = agreement.SignerWitness
			params.IsAdmin = true
		}

		err := svc.Sign(ctx, params)
		switch {
		case err == nil:
		case errors.Is(err, agreement.ErrSignatureRejected):
			// the agreement moved on; expected under contention
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		default:
			return err
		}
		time.Sleep(time.Duration(10+rand.Intn(30)) * time.Millisecond)
	}
}

// Transitioner requests random status changes. Illegal requests must be
// rejected cleanly; only state-machine errors are tolerated.
func Transitioner(ctx context.Context, svc *agreement.Service, agreementID, actorID string, stop <-chan struct{}) error {
	targets := []agreement.Status{
		agreement.StatusPendingSignatures,
		agreement.StatusPendingWitness,
		agreement.StatusActive,
		agreement.StatusCompleted,
		agreement.StatusDraft,
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		err := svc.Transition(ctx, agreement.TransitionParams{
			AgreementID: agreementID,
			ActorID:     actorID,
			Target:      targets[rand.Intn(len(targets))],
		})
		switch {
		case err == nil:
		case errors.Is(err, agreement.ErrInvalidTransition):
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		default:
			return err
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Sweeper runs the expiry sweep repeatedly; a second sweep over the same rows
// must find nothing new.
func Sweeper(ctx context.Context, svc *agreement.Service, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		if _, err := svc.ExpireOverdue(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		time.Sleep(time.Duration(100+rand.Intn(100)) * time.Millisecond)
	}
}

// OutboxWorker drains unsent outbox messages with SKIP LOCKED, simulating the
// downstream dispatcher.
func OutboxWorker(ctx context.Context, pool *pgxpool.Pool, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		tx, err := pool.Begin(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		rows, err := tx.Query(ctx, `SELECT id FROM outbox WHERE sent_at IS NULL ORDER BY created_at FOR UPDATE SKIP LOCKED LIMIT 10`)
		if err != nil {
			_ = tx.Rollback(ctx)
			time.Sleep(50 * time.Millisecond)
			continue
		}
		ids := make([]int64, 0, 10)
		for rows.Next() {
			var id int64
			_ = rows.Scan(&id)
			ids = append(ids, id)
		}
		rows.Close()
		for _, id := range ids {
			_, _ = tx.Exec(ctx, `UPDATE outbox SET sent_at = NOW() WHERE id = $1`, id)
		}
		_ = tx.Commit(ctx)
		time.Sleep(100 * time.Millisecond)
	}
}
