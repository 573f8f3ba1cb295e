package sqlinline

const QAdminStats = `--sql c7057291-be51-4dce-af46-389021745564
select
    (select count(*) from users)::int as total_users,
    (select count(*) from users where plan = 'pro')::int as pro_users,
    (select count(*) from users where plan <> 'pro')::int as free_users,
    (select count(*) from notes)::int as total_notes,
    (select coalesce(sum(amount), 0) from payments where status = 'success')::bigint as revenue;
`

const QProgressTotals = `--sql d05014e9-8b2c-4ec5-a631-aa00024b5ca9
select
    (select count(*) from notes where user_id = $1::uuid)::int,
    (select count(*) from chats where user_id = $1::uuid)::int,
    (select count(*) from tutor_messages where user_id = $1::uuid)::int,
    (select count(*) from memory_tests where user_id = $1::uuid)::int,
    (select count(*) from notes where user_id = $1::uuid and created_at >= $2::timestamptz)::int,
    (select count(*) from chats where user_id = $1::uuid and created_at >= $2::timestamptz)::int;
`

const QProgressDaily = `--sql 6af9fa1e-31e5-4e15-ab5b-78b35aba8b7d
with days as (
    select generate_series($2::date - 6, $2::date, interval '1 day')::date as day
)
select
    d.day,
    (select count(*) from chats c where c.user_id = $1::uuid and c.created_at::date = d.day)::int,
    (select count(*) from notes n where n.user_id = $1::uuid and n.created_at::date = d.day)::int
from days d
order by d.day asc;
`

const QProgressTopics = `--sql b5960237-0ba3-4dc7-8b63-c676cefa0ecb
select lesson, count(*)::int
from notes
where user_id = $1::uuid
group by lesson
order by count(*) desc, lesson asc
limit $2::int;
`

const QProgressTopQuestions = `--sql 45457d84-47f3-4298-b5b4-51acd3e78eeb
select left(question, 40), count(*)::int
from chats
where user_id = $1::uuid
group by left(question, 40)
order by count(*) desc, left(question, 40) asc
limit $2::int;
`
