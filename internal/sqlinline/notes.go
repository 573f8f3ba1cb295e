package sqlinline

const QInsertNote = `--sql 9886fcf8-298a-4386-9a61-b62d1dca860c
insert into notes (id, user_id, lesson, mode, content, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, now())
returning id, created_at;
`

const QListNotesByUser = `--sql 15ffde4e-9d34-4bf5-89e8-efc715564c83
select id, user_id, lesson, mode, content, created_at
from notes
where user_id = $1::uuid
order by created_at desc
limit $2::int;
`

const QSelectNoteByID = `--sql c57a10a1-6673-4cc6-a49e-1db6d33451ea
select id, user_id, lesson, mode, content, created_at
from notes
where id = $1::uuid and user_id = $2::uuid
limit 1;
`

const QUpdateNoteContent = `--sql b35286c1-cd83-4989-a372-2e6f14173313
update notes
set content = $3::text
where id = $1::uuid and user_id = $2::uuid;
`

const QDeleteNote = `--sql c23f2693-6fc0-4178-bb13-4ed487a6405d
delete from notes
where id = $1::uuid and user_id = $2::uuid;
`
