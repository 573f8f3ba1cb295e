package sqlinline

const QInsertTutorMessage = `--sql f2c07ac2-e3d0-4dee-be46-19f55d8091bc
insert into tutor_messages (id, user_id, kind, question, answer, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, now())
returning id, created_at;
`

const QInsertStudentProgress = `--sql 7eca50cd-7bf5-455f-830d-e9059e4eb790
insert into student_progress (id, user_id, topic, last_question, language, difficulty, notes, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, $5::text, $6::text, now())
returning id, created_at;
`

const QListStudentProgress = `--sql 2d9294d5-9174-4450-ba59-b3d6d186b9ea
select id, user_id, topic, last_question, language, difficulty, notes, created_at
from student_progress
where user_id = $1::uuid
order by created_at desc
limit $2::int;
`
