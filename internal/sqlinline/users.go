package sqlinline

const QInsertUser = `--sql 6a6408b4-84eb-4bf9-bd8c-6f93fddb6760
insert into users (id, username, email, password_hash, google_sub, role, plan, created_at, updated_at)
values (gen_random_uuid(), $1::text, lower($2::text), $3::text, nullif($4::text, ''), 'user', 'free', now(), now())
returning id, username, email, password_hash, coalesce(google_sub, ''), role, plan, created_at;
`

const QSelectUserByID = `--sql e624e638-1c3b-4e9f-aaa9-02229246816a
select id, username, email, password_hash, coalesce(google_sub, ''), role, plan, created_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByLogin = `--sql 6ec7b15a-ecf6-4a1f-8691-716a310325fd
select id, username, email, password_hash, coalesce(google_sub, ''), role, plan, created_at
from users
where lower(email) = lower($1::text) or lower(username) = lower($1::text)
order by (lower(email) = lower($1::text)) desc
limit 1;
`

const QSelectUserByGoogleSub = `--sql dbb8b873-4938-4723-b30d-c34570126dad
select id, username, email, password_hash, coalesce(google_sub, ''), role, plan, created_at
from users
where google_sub = $1::text
limit 1;
`

const QLinkGoogleSub = `--sql 0fcf6697-8569-4225-8278-6e0b1f3b8e8f
update users
set google_sub = $2::text, updated_at = now()
where lower(email) = lower($1::text) and (google_sub is null or google_sub = $2::text)
returning id, username, email, password_hash, coalesce(google_sub, ''), role, plan, created_at;
`

const QUpdateUserPassword = `--sql e9a50ddb-2db3-49e1-8525-d63efecfd491
update users
set password_hash = $2::text, updated_at = now()
where id = $1::uuid;
`

const QUpdateUserPlan = `--sql 4706432d-4f54-49c2-b614-2638ed781a46
update users
set plan = $2::text, updated_at = now()
where id = $1::uuid;
`

const QUpdateUserPlanByEmail = `--sql 0c2f64d9-ad18-4b6c-be83-e50ae5b03019
update users
set plan = $2::text, updated_at = now()
where lower(email) = lower($1::text)
returning id;
`

const QDeleteUser = `--sql 530bd7c0-0dd7-4f8c-af85-0de1c1ed7938
delete from users
where id = $1::uuid and role <> 'admin';
`

const QListUsersWithNoteCounts = `--sql 7a8c8a5c-6c50-4914-be9c-41fbc3e9737d
select
    u.id,
    u.username,
    u.email,
    u.role,
    u.plan,
    u.created_at,
    (select count(*) from notes n where n.user_id = u.id)::int as note_count
from users u
order by u.created_at desc
limit $1::int;
`
