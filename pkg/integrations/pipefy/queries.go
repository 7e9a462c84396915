package pipefy

// pageInfoQuery walks allCards without any card payload.
const pageInfoQuery = `
query ($pipeId: ID!, $after: String) {
  allCards(pipeId: $pipeId, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}
`

// cardsQuery fetches one page of cards. Every column is gated by an include
// flag so a page only carries the columns the integration writes.
const cardsQuery = `
query (
  $pipeId: ID!
  $after: String
  $id: Boolean!
  $title: Boolean!
  $currentPhase: Boolean!
  $labels: Boolean!
  $assignees: Boolean!
  $createdAt: Boolean!
  $updatedAt: Boolean!
  $dueDate: Boolean!
  $fields: Boolean!
  $phasesHistory: Boolean!
) {
  allCards(pipeId: $pipeId, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id @include(if: $id)
        title @include(if: $title)
        current_phase @include(if: $currentPhase) {
          name
        }
        labels @include(if: $labels) {
          name
        }
        assignees @include(if: $assignees) {
          name
        }
        updated_at @include(if: $updatedAt)
        createdAt @include(if: $createdAt)
        due_date @include(if: $dueDate)
        fields @include(if: $fields) {
          name
          value
          report_value
          phase_field {
            phase {
              name
            }
          }
        }
        phases_history @include(if: $phasesHistory) {
          phase {
            name
          }
          duration
          firstTimeIn
          lastTimeOut
        }
      }
    }
  }
}
`

// pipeQuery fetches the intake form and phases with their field definitions.
const pipeQuery = `
query (
  $pipeId: ID!
  $startFormFields: Boolean!
  $phasesData: Boolean!
  $phasesFormsFields: Boolean!
) {
  pipe(id: $pipeId) {
    start_form_fields @include(if: $startFormFields) {
      label
      type
    }
    phases @include(if: $phasesData) {
      name
      fields @include(if: $phasesFormsFields) {
        label
        type
      }
    }
  }
}
`
