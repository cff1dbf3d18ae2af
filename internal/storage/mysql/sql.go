package mysql

const createUpstreamEventsSQL = `
CREATE TABLE IF NOT EXISTS upstream_events (
  id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
  property_id   VARCHAR(64)  NOT NULL,
  room_type_id  VARCHAR(64)  NULL,
  status        INT          NOT NULL,
  reason        VARCHAR(255) NOT NULL,
  created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  KEY idx_property_created (property_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

const insertUpstreamEventSQL = `
INSERT INTO upstream_events (property_id, room_type_id, status, reason)
VALUES (?, ?, ?, ?);
`

const selectRecentEventsSQL = `
SELECT property_id, room_type_id, status, reason
FROM upstream_events
WHERE property_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;
`
