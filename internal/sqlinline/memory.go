package sqlinline

const QInsertMemoryTest = `--sql a0f481ab-bf17-4343-acec-a8526fca73e9
insert into memory_tests (id, user_id, note_id, questions, scores, score, total, percentage, created_at)
values (gen_random_uuid(), $1::uuid, nullif($2::text, '')::uuid, $3::jsonb, $4::jsonb, $5::float8, $6::int, $7::float8, now())
returning id, created_at;
`

const QSelectMemoryTest = `--sql b522c2fe-4de0-4453-aba8-f8e8411f195a
select id, user_id, coalesce(note_id::text, ''), questions, scores, score, total, percentage, created_at
from memory_tests
where id = $1::uuid and user_id = $2::uuid
limit 1;
`
