// Package httputil provides HTTP helpers for talking to remote rendering
// servers.
//
// [Retry] re-runs an operation with exponential backoff as long as it fails
// with a [RetryableError]. [CheckResponse] turns non-2xx responses into
// [StatusError] values and marks the transient ones (5xx, 429) retryable:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    if err := httputil.CheckResponse(resp); err != nil {
//	        return err
//	    }
//	    data, err = io.ReadAll(resp.Body)
//	    return err
//	})
package httputil
