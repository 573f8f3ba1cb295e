package sqlinline

const QInsertChatSession = `--sql 5fb06021-eb2e-4bb2-a795-acbbc3e5d36c
insert into chat_sessions (id, user_id, title, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, now())
returning id, created_at;
`

const QSelectChatSession = `--sql 8c6c77d6-b719-49d8-910c-2d3e78ef2a5d
select id, user_id, title, created_at
from chat_sessions
where id = $1::uuid and user_id = $2::uuid
limit 1;
`

const QListChatSessions = `--sql 62928892-09ba-452a-b65b-d7d72d5cfe10
select id, user_id, title, created_at
from chat_sessions
where user_id = $1::uuid
order by created_at desc;
`

const QRetitleDefaultChatSession = `--sql 551ee84f-8032-4630-a4be-6e7778b8f102
update chat_sessions
set title = $2::text
where id = $1::uuid and title = 'New Chat';
`

const QDeleteChatSession = `--sql 2bbf81e9-0b18-4928-99e9-8fd288a11739
delete from chat_sessions
where id = $1::uuid and user_id = $2::uuid;
`

const QInsertChat = `--sql 5bd95b18-6470-4f67-b054-a767c95bc61e
insert into chats (id, user_id, session_id, question, answer, created_at)
values (gen_random_uuid(), $1::uuid, $2::uuid, $3::text, $4::text, now())
returning id, created_at;
`

const QListChatsBySession = `--sql 50f4939a-eaa9-44c2-82ca-854fdcb30582
select id, user_id, session_id, question, answer, created_at
from chats
where session_id = $1::uuid and user_id = $2::uuid
order by created_at asc, id asc;
`

const QRecentChatsBySession = `--sql 4f9cb715-f16c-40c3-98d4-c4a1461d7577
select question, answer
from (
    select question, answer, created_at, id
    from chats
    where session_id = $1::uuid and user_id = $2::uuid
    order by created_at desc, id desc
    limit $3::int
) recent
order by created_at asc, id asc;
`
