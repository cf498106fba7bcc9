package mysql

const insertAuditSQL = `
INSERT INTO admin_audit (actor, action, target_id, detail, created_at)
VALUES (?, ?, ?, ?, ?)
`

// Newest first; served by idx_admin_audit_created (created_at, id).
const recentAuditSQL = `
SELECT id, actor, action, target_id, detail, created_at
FROM admin_audit
ORDER BY created_at DESC, id DESC
LIMIT ?
`
