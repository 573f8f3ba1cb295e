package sqlinline

const QSelectIntegrationToken = `--sql 6909b214-deb2-482e-9983-da8ecb45ac78
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql f7150ffd-0c59-4c01-a8d8-00fe2e3e6e9a
insert into integration_tokens (id, provider, token, properties, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
    token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`

const QListIntegrationTokens = `--sql 44aba028-bc61-4c45-8275-477fef55200a
select provider, token, updated_at
from integration_tokens
order by provider asc;
`
