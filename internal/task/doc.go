// Package task owns the task collection: loading it from the tasks
// file, mutating it in memory, and writing it back wholesale.
//
// The tasks file (tasks.json) is a top-level JSON array:
//
//	[
//	  {
//	    "id": 1,
//	    "description": "Buy milk",
//	    "status": "todo",
//	    "createdAt": "2024-01-01T09:30:00",
//	    "updatedAt": "2024-01-01T09:30:00"
//	  }
//	]
//
// # Lifecycle
//
// The collection is loaded wholesale at the start of every command
// invocation, mutated in memory, and written back in full at the end
// of any mutating operation. Read-only operations never write. No
// state lives between invocations except the file itself.
//
// # Identifiers
//
// Ids are positive integers unique within the collection, assigned as
// max(existing ids) + 1 (1 when empty). Deleted ids below the current
// maximum are never reissued. Deleting the maximum and adding a new
// task reuses that id; this matches the original tool and is kept for
// file compatibility.
//
// # Task Status Values
//
//   - "todo": task is pending (the default at creation)
//   - "in-progress": task is being worked on
//   - "done": task is complete
//
// # File Format
//
// When writing the tasks file, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Timestamps at second precision in the local zone (TimeLayout)
//   - A temp-file-and-rename write so failures never corrupt the file
package task
