package mysql

const upsertAggregateSQL = `
INSERT INTO review_aggregates (submission_id, recommendation)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  recommendation = VALUES(recommendation),
  updated_at     = CURRENT_TIMESTAMP
`

const deleteReviewsSQL = `DELETE FROM reviews WHERE submission_id = ?`

// reviews cascade from review_aggregates
const deleteAggregateSQL = `DELETE FROM review_aggregates WHERE submission_id = ?`

const insertReviewsPrefix = "INSERT INTO reviews\n  (submission_id, id, position, author, score, recommendation, review_url)\nVALUES "

const insertMissSQL = `
INSERT INTO ingest_misses (submission_id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE http_status = VALUES(http_status), seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getAggregateSQL = `
SELECT recommendation
FROM review_aggregates
WHERE submission_id = ?
`

// position preserves the order the upstream listed the reviews in.
const listReviewsSQL = `
SELECT id, author, score, recommendation, review_url
FROM reviews
WHERE submission_id = ?
ORDER BY position, id
`
