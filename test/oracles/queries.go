// Package oracles holds SQL invariant checks run against the database while
// the actors are working. Every query must return zero rows on a healthy
// system; any row is a violation.
package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_single_owner_witness_signature",
			SQL: `SELECT agreement_id, signer_type, COUNT(*) FROM signatures
                  WHERE signer_type IN ('owner','witness')
                  GROUP BY agreement_id, signer_type HAVING COUNT(*) > 1`,
		},
		{
			Name: "O2_single_beneficiary_signature",
			SQL: `SELECT agreement_id, beneficiary_id, COUNT(*) FROM signatures
                  WHERE signer_type = 'beneficiary'
                  GROUP BY agreement_id, beneficiary_id HAVING COUNT(*) > 1`,
		},
		{
			Name: "O3_signature_belongs_to_agreement",
			SQL: `SELECT s.id FROM signatures s
                  JOIN beneficiaries b ON b.id = s.beneficiary_id
                  WHERE b.agreement_id <> s.agreement_id`,
		},
		{
			Name: "O4_active_requires_full_signatures",
			SQL: `SELECT a.id FROM agreements a
                  WHERE a.status IN ('ACTIVE','COMPLETED')
                    AND (
                      NOT EXISTS (SELECT 1 FROM signatures s
                                  WHERE s.agreement_id = a.id AND s.signer_type = 'owner')
                      OR NOT EXISTS (SELECT 1 FROM signatures s
                                     WHERE s.agreement_id = a.id AND s.signer_type = 'witness')
                      OR EXISTS (SELECT 1 FROM beneficiaries b
                                 WHERE b.agreement_id = a.id
                                   AND NOT EXISTS (SELECT 1 FROM signatures s
                                                   WHERE s.agreement_id = a.id
                                                     AND s.signer_type = 'beneficiary'
                                                     AND s.beneficiary_id = b.id))
                    )`,
		},
		{
			Name: "O5_expired_only_past_due",
			SQL: `SELECT id FROM agreements
                  WHERE status = 'EXPIRED'
                    AND (expiry_date IS NULL OR expiry_date >= now())`,
		},
		{
			Name: "O6_beneficiary_single_reference",
			SQL: `SELECT id FROM beneficiaries
                  WHERE (family_member_id IS NULL) = (non_registered_family_member_id IS NULL)`,
		},
		{
			Name: "O7_outbox_not_stale",
			SQL: `SELECT id FROM outbox
                  WHERE sent_at IS NULL AND now() - created_at > interval '5 minutes'`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample row
// text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
