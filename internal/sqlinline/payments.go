package sqlinline

// QRecordPaymentSuccess upserts a captured payment and upgrades its owner in
// one statement. A row already marked success is left alone, so a replay
// returns no row.
const QRecordPaymentSuccess = `--sql e4c596e1-fb79-48d4-b715-0a98fbbf372c
with recorded as (
    insert into payments (id, user_id, order_id, payment_id, amount, currency, status, created_at, updated_at)
    values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::bigint, $5::text, 'success', now(), now())
    on conflict (order_id) do update set
        payment_id = excluded.payment_id,
        amount = excluded.amount,
        currency = excluded.currency,
        status = 'success',
        updated_at = now()
    where payments.status <> 'success'
    returning id, user_id
),
upgraded as (
    update users
    set plan = 'pro', updated_at = now()
    where id = (select user_id from recorded)
    returning id
)
select r.id, (select count(*) from upgraded)::int
from recorded r;
`

// QRecordPaymentFailure stores a failed attempt. It never overwrites a row
// for the same order.
const QRecordPaymentFailure = `--sql 48da3e22-69b1-456d-8c78-9b11faa716b1
insert into payments (id, user_id, order_id, payment_id, amount, currency, status, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::bigint, $5::text, 'failed', now(), now())
on conflict (order_id) do nothing
returning id;
`

const QSelectPaymentByOrder = `--sql 2b1c170c-cab4-4313-b1a0-6e5a11f3fedc
select id, user_id, order_id, payment_id, amount, currency, status, created_at
from payments
where order_id = $1::text
limit 1;
`
