// Package apidoc mounts self-registering API documentation on a route table.
//
// A V1 Registry serves a Swagger 1.2 resource listing and mounts one extra
// route per registered API that serves that API's JSON file. A V2 Registry20
// streams one Swagger 2.0 document assembled from fragments: the envelope
// below is written literally and each registered fragment is written into it
// in registration order.
//
//	{
//	  "swagger": "2.0",
//	  "host": "<host>",
//	  "basePath": "<base path>",
//	  "paths": {
//	<api fragments>
//	  },
//	  "definitions": {
//	<definition fragments>
//	  }
//	}
//
// Builders register against whatever registry is mounted at their base path,
// so code holding only the route table can contribute documentation. Bind
// and SetAPIDoc also return the registry itself for callers that prefer an
// explicit handle.
package apidoc
