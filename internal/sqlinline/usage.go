package sqlinline

const QCountNotesSince = `--sql 618feb16-6dda-4ab3-8b1b-39db65deb60c
select count(*)::int
from notes
where user_id = $1::uuid and created_at >= $2::timestamptz;
`

const QCountChatsSince = `--sql 4a9aaadb-c1a6-46a6-9562-972a88c228a2
select count(*)::int
from chats
where user_id = $1::uuid and created_at >= $2::timestamptz;
`

const QCountTutorMessagesSince = `--sql 2759994f-6614-480f-af2a-b948dc72c786
select count(*)::int
from tutor_messages
where user_id = $1::uuid and created_at >= $2::timestamptz;
`
