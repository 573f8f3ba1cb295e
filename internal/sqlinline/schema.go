package sqlinline

// QSchema is the reference DDL. It is idempotent so `studyctl migrate` can
// run it against an existing database.
const QSchema = `--sql 1ba894e3-5419-435e-94ab-7e055f0baccd
create extension if not exists pgcrypto;

create table if not exists users (
    id uuid primary key default gen_random_uuid(),
    username text not null,
    email text not null,
    password_hash text not null default '',
    google_sub text,
    role text not null default 'user' check (role in ('user', 'admin')),
    plan text not null default 'free' check (plan in ('free', 'pro')),
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create unique index if not exists users_email_key on users (lower(email));
create unique index if not exists users_username_key on users (lower(username));
create unique index if not exists users_google_sub_key on users (google_sub) where google_sub is not null;

create table if not exists notes (
    id uuid primary key default gen_random_uuid(),
    user_id uuid not null references users(id) on delete cascade,
    lesson text not null,
    mode text not null,
    content text not null,
    created_at timestamptz not null default now()
);
create index if not exists notes_user_created_idx on notes (user_id, created_at desc);

create table if not exists chat_sessions (
    id uuid primary key default gen_random_uuid(),
    user_id uuid not null references users(id) on delete cascade,
    title text not null default 'New Chat',
    created_at timestamptz not null default now()
);
create index if not exists chat_sessions_user_idx on chat_sessions (user_id, created_at desc);

create table if not exists chats (
    id uuid primary key default gen_random_uuid(),
    user_id uuid not null references users(id) on delete cascade,
    session_id uuid not null references chat_sessions(id) on delete cascade,
    question text not null,
    answer text not null,
    created_at timestamptz not null default now()
);
create index if not exists chats_user_created_idx on chats (user_id, created_at desc);
create index if not exists chats_session_idx on chats (session_id, created_at);

create table if not exists tutor_messages (
    id uuid primary key default gen_random_uuid(),
    user_id uuid not null references users(id) on delete cascade,
    kind text not null,
    question text not null,
    answer text not null,
    created_at timestamptz not null default now()
);
create index if not exists tutor_messages_user_created_idx on tutor_messages (user_id, created_at desc);

create table if not exists student_progress (
    id uuid primary key default gen_random_uuid(),
    user_id uuid not null references users(id) on delete cascade,
    topic text not null,
    last_question text not null default '',
    language text not null default 'en',
    difficulty text not null default 'normal',
    notes text not null default '',
    created_at timestamptz not null default now()
);
create index if not exists student_progress_user_idx on student_progress (user_id, created_at desc);

create table if not exists memory_tests (
    id uuid primary key default gen_random_uuid(),
    user_id uuid not null references users(id) on delete cascade,
    note_id uuid references notes(id) on delete set null,
    questions jsonb not null default '[]'::jsonb,
    scores jsonb not null default '[]'::jsonb,
    score double precision not null,
    total int not null,
    percentage double precision not null,
    created_at timestamptz not null default now()
);

create table if not exists payments (
    id uuid primary key default gen_random_uuid(),
    user_id uuid not null references users(id) on delete cascade,
    order_id text not null unique,
    payment_id text not null default '',
    amount bigint not null default 0,
    currency text not null default 'INR',
    status text not null check (status in ('success', 'failed')),
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);

create table if not exists integration_tokens (
    id uuid primary key default gen_random_uuid(),
    provider text not null unique,
    token text not null,
    properties jsonb not null default '{}'::jsonb,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
`
