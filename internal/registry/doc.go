// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

/*
Package registry implements namespace submissions to the Geoconnex registry
repository.

A namespace is a directory under namespaces/ in the registry repository
holding CSV files that map persistent identifiers to their targets. Each
CSV needs the columns id, target, creator and description:

	id,target,creator,description
	https://geoconnex.us/ref/gages/1000001,https://waterdata.usgs.gov/monitoring-location/1000001,me@example.com,Gage 1000001

# Submission Workflow

Submitter.Submit validates the upload and proposes it as a pull request:

 1. Read the head commit of the base branch.
 2. Read namespaces/<namespace>/<file> at that commit. Identical content
    ends the workflow with Outcome.Unchanged set and nothing written.
 3. Create the branch upload-<namespace>-<unix millis>.
 4. Write the file on that branch, replacing the existing blob if any.
 5. Open a pull request titled "Add CSV file to <namespace>".

Validation failures are CSVError values whose messages are meant for the
submitter. GitHub failures are *StepError values naming the failed step.

# Contribution Guide

Guide fetches the contribution guide (CONTRIBUTING.md by default) from the
base branch, renders it to HTML with blackfriday and caches the result in
a ristretto cache.
*/
package registry
