package accountrepo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/go-petr/safebank/internal/domain"
)

const defaultRedisPrefix = "safebank"

var insertScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1],
  "name", ARGV[2], "age", ARGV[3], "gender", ARGV[4], "address", ARGV[5],
  "contact", ARGV[6], "amount", ARGV[7], "created_at", ARGV[8])
redis.call("ZADD", KEYS[2], ARGV[1], ARGV[1])
return 1
`)

var updateBalanceScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], "amount", ARGV[1])
return 1
`)

var deleteByPINScript = redis.NewScript(`
local name = redis.call("HGET", KEYS[1], "name")
if not name then
  return 0
end
redis.call("DEL", KEYS[1])
redis.call("ZREM", ARGV[1] .. ":name:" .. name, ARGV[2])
return 1
`)

var deleteByNameScript = redis.NewScript(`
local pins = redis.call("ZRANGE", KEYS[1], 0, -1)
for _, pin in ipairs(pins) do
  redis.call("DEL", ARGV[1] .. ":account:" .. pin)
end
redis.call("DEL", KEYS[1])
return #pins
`)

// RepoRedis facilitates account repository layer logic on Redis.
//
// Each account is a hash under <prefix>:account:<pin>; a sorted set under
// <prefix>:name:<name> indexes PINs by holder name, scored by PIN.
type RepoRedis struct {
	client redis.UniversalClient
	prefix string
}

// NewRepoRedis returns account RepoRedis. An empty prefix falls back to "safebank".
func NewRepoRedis(client redis.UniversalClient, prefix string) *RepoRedis {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = defaultRedisPrefix
	}

	return &RepoRedis{client: client, prefix: prefix}
}

func (r *RepoRedis) accountKey(pin int64) string {
	return fmt.Sprintf("%s:account:%d", r.prefix, pin)
}

func (r *RepoRedis) nameKey(name string) string {
	return r.prefix + ":name:" + name
}

func unavailable(l *zerolog.Logger, err error) error {
	l.Error().Err(err).Send()
	return domain.ErrStoreUnavailable
}

// Insert creates the account unless its PIN is taken.
func (r *RepoRedis) Insert(ctx context.Context, a domain.Account) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	keys := []string{r.accountKey(a.PIN), r.nameKey(a.Name)}
	args := []any{a.PIN, a.Name, a.Age, a.Gender, a.Address, a.Contact, a.Balance, a.CreatedAt.Format(time.RFC3339Nano)}

	inserted, err := insertScript.Run(ctx, r.client, keys, args...).Int64()
	if err != nil {
		return domain.Account{}, unavailable(l, err)
	}

	if inserted == 0 {
		return domain.Account{}, domain.ErrPINAlreadyExists
	}

	return a, nil
}

func parseAccount(pin int64, fields map[string]string) (domain.Account, error) {
	age, err := strconv.Atoi(fields["age"])
	if err != nil {
		return domain.Account{}, fmt.Errorf("account %d age: %w", pin, err)
	}

	// A missing amount reads as zero.
	var balance int64
	if raw, ok := fields["amount"]; ok {
		if balance, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return domain.Account{}, fmt.Errorf("account %d amount: %w", pin, err)
		}
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return domain.Account{}, fmt.Errorf("account %d created_at: %w", pin, err)
	}

	return domain.Account{
		PIN:       pin,
		Name:      fields["name"],
		Age:       age,
		Gender:    fields["gender"],
		Address:   fields["address"],
		Contact:   fields["contact"],
		Balance:   balance,
		CreatedAt: createdAt,
	}, nil
}

// FindByPIN returns the account with the given PIN.
func (r *RepoRedis) FindByPIN(ctx context.Context, pin int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	fields, err := r.client.HGetAll(ctx, r.accountKey(pin)).Result()
	if err != nil {
		return domain.Account{}, unavailable(l, err)
	}

	if len(fields) == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	a, err := parseAccount(pin, fields)
	if err != nil {
		return domain.Account{}, unavailable(l, err)
	}

	return a, nil
}

// FindByName returns the lowest-PIN account named name.
func (r *RepoRedis) FindByName(ctx context.Context, name string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	members, err := r.client.ZRange(ctx, r.nameKey(name), 0, 0).Result()
	if err != nil {
		return domain.Account{}, unavailable(l, err)
	}

	if len(members) == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	pin, err := strconv.ParseInt(members[0], 10, 64)
	if err != nil {
		return domain.Account{}, unavailable(l, err)
	}

	return r.FindByPIN(ctx, pin)
}

// CountByName returns the number of accounts named name.
func (r *RepoRedis) CountByName(ctx context.Context, name string) (int64, error) {
	l := zerolog.Ctx(ctx)

	count, err := r.client.ZCard(ctx, r.nameKey(name)).Result()
	if err != nil {
		return 0, unavailable(l, err)
	}

	return count, nil
}

// UpdateBalance overwrites the balance and returns the changed account.
func (r *RepoRedis) UpdateBalance(ctx context.Context, pin, balance int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	if balance < 0 {
		return domain.Account{}, domain.ErrInsufficientFunds
	}

	updated, err := updateBalanceScript.Run(ctx, r.client, []string{r.accountKey(pin)}, balance).Int64()
	if err != nil {
		return domain.Account{}, unavailable(l, err)
	}

	if updated == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return r.FindByPIN(ctx, pin)
}

// DeleteByPIN removes the account with the given PIN.
func (r *RepoRedis) DeleteByPIN(ctx context.Context, pin int64) (int64, error) {
	l := zerolog.Ctx(ctx)

	removed, err := deleteByPINScript.Run(ctx, r.client, []string{r.accountKey(pin)}, r.prefix, pin).Int64()
	if err != nil {
		return 0, unavailable(l, err)
	}

	if removed == 0 {
		return 0, domain.ErrAccountNotFound
	}

	return removed, nil
}

// DeleteByName removes every account named name.
func (r *RepoRedis) DeleteByName(ctx context.Context, name string) (int64, error) {
	l := zerolog.Ctx(ctx)

	removed, err := deleteByNameScript.Run(ctx, r.client, []string{r.nameKey(name)}, r.prefix).Int64()
	if err != nil {
		return 0, unavailable(l, err)
	}

	if removed == 0 {
		return 0, domain.ErrAccountNotFound
	}

	return removed, nil
}
