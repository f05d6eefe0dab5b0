// Package task defines the task record and the pure helpers that operate on
// collections of tasks: date parsing, ordering, filtering, and summaries.
//
// A task is stored in the JSON shape task files use:
//
//	{
//	  "id": "0b6f0d5e-3d0c-4a57-9f0a-7c1f5a1b2c3d",
//	  "title": "Essay draft",
//	  "description": "Chapters 1-3",
//	  "priority": "high",
//	  "dueDate": "2025-11-10T10:00:00.000Z",
//	  "isCompleted": false,
//	  "estimatedMinutes": 90,
//	  "createdAt": "2025-11-01T08:00:00.000Z"
//	}
//
// # Dates
//
// Due and creation dates are kept verbatim so that files round-trip unchanged.
// They are parsed on demand by ParseTime, which never fails loudly: a string it
// cannot read is reported as absent. Absent due dates sort after every present
// one.
//
// # Sort Modes
//
//   - "date": due date ascending
//   - "priority": low, medium, high; newest first within a priority
//   - "time": longest estimate first, then due date ascending
package task
