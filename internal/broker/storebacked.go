package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"

	"github.com/TebanMT/POC-SENTRY/internal/config"
	"github.com/TebanMT/POC-SENTRY/internal/core"
)

// recordParser turns a raw store record into a backend credential. now is the
// resolution time used for validity checks.
type recordParser func(rec core.Record, now time.Time) (core.Credential, error)

// storeBacked is the shared resolution template for store-backed kinds:
// query the secondary index by principal, expect exactly one record, hand it
// to the kind-specific parser. More than one record means provisioning wrote
// duplicates; that is an invariant violation and fails loudly instead of
// silently picking one.
func (r *Resolver) storeBacked(store core.CredentialStore, cfg *config.Config, parse recordParser) resolveFunc {
	return func(ctx context.Context, principal core.Principal) (core.Credential, error) {
		records, err := store.QueryByIndex(ctx, cfg.SessionIndex, cfg.SessionIndexAttribute, string(principal))
		if err != nil {
			return nil, err
		}
		switch {
		case len(records) == 0:
			return nil, fmt.Errorf("No user for id: %s: %w", principal, core.ErrCredentialNotFound)
		case len(records) > 1:
			log.Error().
				Str("principal", string(principal)).
				Int("records", len(records)).
				Msg("secondary index returned multiple credential records for one principal")
			return nil, fmt.Errorf("%d credential records for id %s: %w", len(records), principal, core.ErrDuplicateCredential)
		}
		return parse(records[0], r.now().UTC())
	}
}

type restRecord struct {
	Token   string `mapstructure:"gtwToken"`
	Expires int64  `mapstructure:"gtwexpires"`
}

// parseREST extracts the bearer token and enforces the epoch expiry stamped
// on the record, independent of the store's own TTL field. Resolution at
// exactly the expiry instant still succeeds.
func parseREST(rec core.Record, now time.Time) (core.Credential, error) {
	if err := requireAttributes(rec, "gtwToken", "gtwexpires"); err != nil {
		return nil, err
	}
	var raw restRecord
	if err := decodeRecord(rec, &raw); err != nil {
		return nil, err
	}

	expiry := time.Unix(raw.Expires, 0).UTC()
	if now.After(expiry) {
		return nil, fmt.Errorf("Token Expired: %w", core.ErrCredentialExpired)
	}
	return core.BearerCredential{Token: raw.Token}, nil
}

type soapRecord struct {
	UserID      string `mapstructure:"soapUserId"`
	SessionGUID string `mapstructure:"soapSessionGuid"`
	Culture     string `mapstructure:"Culture"`
	IP          string `mapstructure:"IP"`
	Creation    string `mapstructure:"DateOfCreation"`
	LastChange  string `mapstructure:"soapLastChange"`
}

// parseSOAP builds the session descriptor for SOAP-style calls. Both stored
// timestamps arrive in loosely formatted strings and are normalized to the
// strict offset-aware pattern downstream consumers parse.
func parseSOAP(rec core.Record, _ time.Time) (core.Credential, error) {
	if err := requireAttributes(rec, "soapUserId", "soapSessionGuid", "DateOfCreation", "soapLastChange"); err != nil {
		return nil, err
	}
	var raw soapRecord
	if err := decodeRecord(rec, &raw); err != nil {
		return nil, err
	}

	creation, err := normalizeSOAPTime(raw.Creation)
	if err != nil {
		return nil, fmt.Errorf("normalizing DateOfCreation: %w: %w", core.ErrConfiguration, err)
	}
	lastChange, err := normalizeSOAPTime(raw.LastChange)
	if err != nil {
		return nil, fmt.Errorf("normalizing soapLastChange: %w: %w", core.ErrConfiguration, err)
	}

	return core.SOAPSession{
		UserID:         raw.UserID,
		SessionGUID:    raw.SessionGUID,
		Culture:        raw.Culture,
		IP:             raw.IP,
		DateOfCreation: creation,
		LastChange:     lastChange,
	}, nil
}

type checksRecord struct {
	Token        string `mapstructure:"tokenAccessCheck"`
	UserID       string `mapstructure:"soapUserId"`
	Culture      string `mapstructure:"Culture"`
	SessionGUID  string `mapstructure:"soapSessionGuid"`
	Username     string `mapstructure:"username"`
	PCName       string `mapstructure:"pcName"`
	PCIdentifier string `mapstructure:"pcIdentifier"`
	PCSerial     string `mapstructure:"pcSerial"`
}

// parseChecks passes the access token and workstation identity through
// verbatim. The Checks backend enforces validity on its side; there is no
// expiry check here.
func parseChecks(rec core.Record, _ time.Time) (core.Credential, error) {
	if err := requireAttributes(rec, "tokenAccessCheck"); err != nil {
		return nil, err
	}
	var raw checksRecord
	if err := decodeRecord(rec, &raw); err != nil {
		return nil, err
	}

	return core.ChecksCredential{
		Token:        raw.Token,
		UserID:       raw.UserID,
		Culture:      raw.Culture,
		SessionGUID:  raw.SessionGUID,
		Username:     raw.Username,
		PCName:       raw.PCName,
		PCIdentifier: raw.PCIdentifier,
		PCSerial:     raw.PCSerial,
	}, nil
}

// requireAttributes rejects records missing the attributes a parser cannot do
// without. A record that lacks them is a provisioning defect, not a
// user-correctable condition.
func requireAttributes(rec core.Record, names ...string) error {
	for _, name := range names {
		if _, ok := rec[name]; !ok {
			return fmt.Errorf("stored record missing attribute %q: %w", name, core.ErrConfiguration)
		}
	}
	return nil
}

// decodeRecord maps raw store attributes onto a typed record. Weak typing
// absorbs the store's habit of returning numbers for attributes consumers
// treat as strings and vice versa.
func decodeRecord(rec core.Record, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(map[string]any(rec)); err != nil {
		return fmt.Errorf("decoding stored record: %w: %w", core.ErrConfiguration, err)
	}
	return nil
}
