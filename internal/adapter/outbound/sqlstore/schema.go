package sqlstore

const schema = `
CREATE TABLE IF NOT EXISTS account (
	id INTEGER PRIMARY KEY,
	identity TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	is_active INTEGER NOT NULL DEFAULT 1,
	last_synced INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS message_category (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	email_address TEXT NOT NULL,
	active INTEGER NOT NULL DEFAULT 1
);

-- I3: at most one active category per email_address, case-insensitive.
CREATE UNIQUE INDEX IF NOT EXISTS idx_category_active_address
	ON message_category (LOWER(email_address))
	WHERE active = 1;

CREATE TABLE IF NOT EXISTS subscription (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category_id INTEGER NOT NULL REFERENCES message_category(id),
	subscriber_account_id INTEGER NOT NULL DEFAULT 0,
	subscriber_email TEXT NOT NULL,
	subscribed_at INTEGER NOT NULL,
	active INTEGER NOT NULL DEFAULT 1
);

-- I2: at most one active subscription per (sender email, category).
CREATE UNIQUE INDEX IF NOT EXISTS idx_subscription_active_pair
	ON subscription (LOWER(subscriber_email), category_id)
	WHERE active = 1;

CREATE TABLE IF NOT EXISTS blocked_ip (
	ip TEXT PRIMARY KEY,
	reason TEXT NOT NULL DEFAULT '',
	blocked_at INTEGER NOT NULL,
	active INTEGER NOT NULL DEFAULT 1
);

-- I6: append-only; no UPDATE/DELETE statement is ever issued against
-- these two tables from Go code.
CREATE TABLE IF NOT EXISTS mta_connection_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	client_ip TEXT NOT NULL,
	stage TEXT NOT NULL,
	action TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	details TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS mta_message_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	from_address TEXT NOT NULL,
	to_addresses TEXT NOT NULL,
	subject TEXT NOT NULL DEFAULT '',
	message_size INTEGER NOT NULL,
	stage TEXT NOT NULL,
	action TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	queue_id TEXT NOT NULL DEFAULT ''
);
`
