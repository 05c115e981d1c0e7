// Package planner decides which calendar window to request next and
// when a traversal is finished: the date-window state machine over
// day/week/month granularity, cursor advancement, and the
// loop/horizon boundary detector for widget-paged traversal.
package planner
